package jwtcrack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when a token cannot be split into a signed
	// segment and a base64url signature.
	ErrInvalidFormat = errors.New("invalid token format")

	// ErrInternal marks unexpected failures inside a running search.
	ErrInternal = errors.New("internal failure")
)

// SearchError reports which stage of a search failed.
type SearchError struct {
	Stage string // pipeline stage, e.g. "verify"
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed at %s stage: %v", e.Stage, e.Err)
}

// Unwrap exposes both the stage cause and ErrInternal to errors.Is.
func (e *SearchError) Unwrap() []error {
	return []error{ErrInternal, e.Err}
}
