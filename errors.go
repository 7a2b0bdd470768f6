package ifcgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ifcgo/spatial"
)

// ErrNoRootEntity is returned when a model has no unique IFCPROJECT.
var ErrNoRootEntity = errors.New("no root entity found")

// ParseError reports the phase in which a parse failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ParseError struct {
	Phase string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed in %s phase: %v", e.Phase, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// PathError annotates an error with the file it concerns.
type PathError struct {
	Path  string
	cause error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.cause)
}

func (e *PathError) Unwrap() error { return e.cause }

func translateError(phase string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, spatial.ErrNoRoot) {
		err = fmt.Errorf("%w: %w", ErrNoRootEntity, err)
	}
	return &ParseError{Phase: phase, cause: err}
}
