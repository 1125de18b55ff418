package middleware

import (
	"github.com/deppfellow/peopledb/internal/logger"
	"github.com/deppfellow/peopledb/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const LoggerKey = "logger"

// ContextEnhancer derives the per-request logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext builds a logger carrying the request id, method, route,
// client ip and store driver (plus trace.id and span.id under New Relic).
// It is stored both in the Echo context, for handlers, and in the request
// context.Context, where the service layer picks it up with zerolog.Ctx.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Str("driver", ce.server.Config.Database.Driver).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				reqLogger = logger.WithTraceContext(reqLogger, txn)
			}

			c.Set(LoggerKey, &reqLogger)
			c.SetRequest(c.Request().WithContext(reqLogger.WithContext(c.Request().Context())))

			return next(c)
		}
	}
}

// GetLogger returns the request logger. Outside EnhanceContext it falls
// back to whatever logger the request context carries, which is a disabled
// logger when there is none.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	return zerolog.Ctx(c.Request().Context())
}
