package handler

import (
	"time"

	"github.com/deppfellow/peopledb/internal/middleware"
	"github.com/deppfellow/peopledb/internal/server"
	"github.com/deppfellow/peopledb/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Handler holds the shared application dependencies. Concrete handlers
// embed it.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound, validated request
// (usually a pointer, so Bind can fill it) and returns a response body.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint without a response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler writes a successful result and describes it for logs
// and traces.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// Sized is implemented by responses that carry a number of people, so the
// count can be attached to the transaction.
type Sized interface {
	Size() int
}

// JSONResponseHandler writes JSON responses with a fixed status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if sized, ok := result.(Sized); ok {
		txn.AddAttribute("people.count", sized.Size())
	}
}

// NoContentResponseHandler writes responses with no body (typically 204).
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// requestTrace records the phases of one request on the request logger and,
// when present, the New Relic transaction.
type requestTrace struct {
	start  time.Time
	txn    *newrelic.Transaction
	logger zerolog.Logger
}

func newRequestTrace(c echo.Context, operation string) *requestTrace {
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	return &requestTrace{
		start: time.Now(),
		txn:   txn,
		logger: middleware.GetLogger(c).With().
			Str("operation", operation).
			Str("route", c.Path()).
			Logger(),
	}
}

// phase records the outcome of one phase ("validation" or "handler").
func (t *requestTrace) phase(name string, took time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
		t.logger.Warn().
			Err(err).
			Dur(name+"_duration", took).
			Dur("total_duration", time.Since(t.start)).
			Msg(name + " failed")
	}

	if t.txn == nil {
		return
	}
	if err != nil {
		t.txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	t.txn.AddAttribute(name+".status", status)
	t.txn.AddAttribute(name+".duration_ms", took.Milliseconds())
}

func (t *requestTrace) done(responseHandler ResponseHandler, result interface{}) {
	total := time.Since(t.start)
	if t.txn != nil {
		t.txn.AddAttribute("total.duration_ms", total.Milliseconds())
		responseHandler.AddAttributes(t.txn, result)
	}
	t.logger.Info().Dur("total_duration", total).Msg("request completed")
}

// handleRequest binds and validates req, runs the handler and writes the
// response. Errors are returned untouched for the global error handler.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	trace := newRequestTrace(c, responseHandler.GetOperation())

	phaseStart := time.Now()
	err := validation.BindAndValidate(c, req)
	trace.phase("validation", time.Since(phaseStart), err)
	if err != nil {
		return err
	}

	phaseStart = time.Now()
	result, err := handler(c, req)
	trace.phase("handler", time.Since(phaseStart), err)
	if err != nil {
		return err
	}

	trace.done(responseHandler, result)
	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler into an echo.HandlerFunc that answers with
// status and a JSON body.
//
//	people.POST("", handler.Handle(p.Handler, p.CreatePerson, http.StatusCreated, func() *CreatePersonRequest {
//		return &CreatePersonRequest{}
//	}))
//
// newReq is called per request so concurrent requests never share a payload.
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for endpoints that answer without a body.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
