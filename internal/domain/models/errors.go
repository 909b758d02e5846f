package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCurveMode is returned when the curve simulator is called with an
// unrecognized mode. This is a programming error on the caller's side and is
// rejected at call time.
var ErrInvalidCurveMode = errors.New("invalid curve mode")

// ErrNoHistory is returned when a ticker has no stored price history.
var ErrNoHistory = errors.New("no price history")

// SchemaError reports required columns missing or invalid in an input feed.
// It is fatal to the call that hit it; the engine never substitutes defaults
// for a missing required column.
type SchemaError struct {
	Feed    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch in %s feed: missing/invalid %s",
		e.Feed, strings.Join(e.Missing, ", "))
}

// NewSchemaError builds a SchemaError for the named feed.
func NewSchemaError(feed string, missing ...string) *SchemaError {
	return &SchemaError{Feed: feed, Missing: missing}
}

// IsSchemaError reports whether err wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
