// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request IDs, request-scoped logging, New Relic tracing, rate limiting,
// CORS and panic recovery, plus the global error handler.
package middleware
