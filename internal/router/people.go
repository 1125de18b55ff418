package router

import (
	"net/http"

	"github.com/deppfellow/peopledb/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerPeopleRoutes(g *echo.Group, h *handler.Handlers) {
	people := g.Group("/people")
	p := h.Person

	people.GET("", handler.Handle(p.Handler, p.QueryPeople, http.StatusOK, func() *handler.QueryPeopleRequest {
		return &handler.QueryPeopleRequest{}
	}))
	people.DELETE("", handler.Handle(p.Handler, p.DeletePeople, http.StatusOK, func() *handler.QueryPeopleRequest {
		return &handler.QueryPeopleRequest{}
	}))
	people.POST("", handler.Handle(p.Handler, p.CreatePerson, http.StatusCreated, func() *handler.CreatePersonRequest {
		return &handler.CreatePersonRequest{}
	}))

	people.GET("/:id", handler.Handle(p.Handler, p.GetPerson, http.StatusOK, func() *handler.GetPersonRequest {
		return &handler.GetPersonRequest{}
	}))
	people.DELETE("/:id", handler.HandleNoContent(p.Handler, p.DeletePerson, http.StatusNoContent, func() *handler.DeletePersonRequest {
		return &handler.DeletePersonRequest{}
	}))
}
