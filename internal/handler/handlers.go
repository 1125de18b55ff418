package handler

import (
	"github.com/deppfellow/peopledb/internal/server"
	"github.com/deppfellow/peopledb/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Person  *PersonHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Person:  NewPersonHandler(s, services.People),
	}
}
