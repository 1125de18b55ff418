package service

import (
	"github.com/deppfellow/peopledb/internal/repository"
	"github.com/deppfellow/peopledb/internal/server"
)

type Services struct {
	People *PeopleService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		People: NewPeopleService(repos.People, s.Logger).WithBatchSize(s.Config.Database.BatchSize),
	}, nil
}
