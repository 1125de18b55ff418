// Package service contains the people business logic.
//
// It sits between the handler (or CLI) and repository layers: it validates
// raw input, calls repository methods and turns their outcome into the
// absent state, store errors or per-item reports. Diagnostics go to the
// injected logger and are never parsed for control flow.
package service
