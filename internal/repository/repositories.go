// Package repository holds the statements run against the store.
//
// Statements are parameterized; only whitelisted column names and the
// whitelisted comparison operator are interpolated into statement text.
package repository

import (
	"github.com/deppfellow/peopledb/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	People *PeopleRepository
}

// NewRepositories builds every repository on the server's store.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		People: NewPeopleRepository(s.DB),
	}
}
