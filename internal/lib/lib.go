// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains shared utilities such as the structured output
// writer used by the command line.
package lib
