// Package handler is the HTTP layer over the service package.
//
// Each endpoint binds its request type, validates it through the
// validation package and calls the people service. Errors are returned
// unchanged; the global error handler turns them into responses.
package handler
