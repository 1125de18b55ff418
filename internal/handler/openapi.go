package handler

import (
	_ "embed"
	"net/http"

	"github.com/deppfellow/peopledb/internal/server"
	"github.com/labstack/echo/v4"
)

var (
	//go:embed static/openapi.html
	openAPIPage []byte

	//go:embed static/openapi.json
	openAPIDocument []byte
)

// OpenAPIHandler serves the API description and a browser UI for it.
// Both are compiled into the binary.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI serves the docs page. Caching is disabled so a redeploy
// shows the new description immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, openAPIPage)
}

func (h *OpenAPIHandler) ServeOpenAPIDocument(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPIDocument)
}
