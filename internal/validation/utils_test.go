package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedPayload struct {
	Field    string `json:"field" validate:"required"`
	Operator string `json:"operator" validate:"oneof=< > <>"`
}

func (p *taggedPayload) Validate() error {
	return validator.New().Struct(p)
}

type domainPayload struct {
	ID string `param:"id"`
}

func (p *domainPayload) Validate() error {
	if p.ID == "7" {
		return nil
	}
	return errs.NewValidationError(errs.FieldError{Field: "id", Error: "id must contain only digits"})
}

func newContext(method, target, body string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate_TagErrors(t *testing.T) {
	c := newContext(http.MethodPost, "/", `{"operator":"="}`)

	err := BindAndValidate(c, &taggedPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "field", Error: "is required"},
		{Field: "operator", Error: "must be one of: < > <>"},
	}, httpErr.Errors)
}

func TestBindAndValidate_DomainErrors(t *testing.T) {
	c := newContext(http.MethodGet, "/people/x", "")
	c.SetParamNames("id")
	c.SetParamValues("x")

	err := BindAndValidate(c, &domainPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "id must contain only digits"}}, httpErr.Errors)

	c = newContext(http.MethodGet, "/people/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	assert.NoError(t, BindAndValidate(c, &domainPayload{}))
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	c := newContext(http.MethodPost, "/", `{"field":`)

	err := BindAndValidate(c, &taggedPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}
