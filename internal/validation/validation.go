// Package validation binds and validates request payloads.
//
// It runs each payload's own Validate method (validator tags or domain
// rules) and converts the failures into a 400 response with per-field
// errors the client can understand.
package validation
