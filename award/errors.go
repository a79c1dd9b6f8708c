/*
errors.go - Error types for the award registry

ERROR CATEGORIES:
 1. Registry errors - Bad codes, missing awards
 2. Parse errors - Unknown enumeration values at the boundary

USAGE:

	if errors.Is(err, award.ErrAwardNotFound) {
	    // route to "ingest an award first"
	}

SEE ALSO:
  - pay/errors.go: Calculation errors
  - ingest/parse.go: Validation of ingested awards
*/
package award

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyCode is returned by Upsert when the award has no code.
	// It is the only check the registry performs.
	ErrEmptyCode = errors.New("award code is required")

	// ErrAwardNotFound is returned when a code is not in the registry.
	ErrAwardNotFound = errors.New("award not found")

	// ErrUnknownPenaltyType is returned when a penalty name is not one of the six variants.
	ErrUnknownPenaltyType = errors.New("unknown penalty type")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// NotFoundError carries the code that was looked up.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("award not found: %s", e.Code)
}

func (e *NotFoundError) Unwrap() error {
	return ErrAwardNotFound
}

// UnknownPenaltyTypeError names the rejected value.
type UnknownPenaltyTypeError struct {
	Name string
}

func (e *UnknownPenaltyTypeError) Error() string {
	return fmt.Sprintf("unknown penalty type %q", e.Name)
}

func (e *UnknownPenaltyTypeError) Unwrap() error {
	return ErrUnknownPenaltyType
}

// IsNotFound returns true if the error indicates a missing award.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAwardNotFound)
}
