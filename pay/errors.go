package pay

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNoAwardSelected: nothing to calculate against. Callers route to
	// "ingest or select an award first".
	ErrNoAwardSelected = errors.New("no award selected")

	// ErrNoClassification: the selected award has no classifications.
	ErrNoClassification = errors.New("award has no classifications")

	// ErrClassificationNotFound: the id does not belong to the active award.
	ErrClassificationNotFound = errors.New("classification not found in award")

	// ErrInvalidShift: a shift failed boundary validation.
	ErrInvalidShift = errors.New("invalid shift")

	ErrSessionNotFound = errors.New("session not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

type ClassificationNotFoundError struct {
	AwardCode        string
	ClassificationID string
}

func (e *ClassificationNotFoundError) Error() string {
	return fmt.Sprintf("classification %q not found in award %s", e.ClassificationID, e.AwardCode)
}

func (e *ClassificationNotFoundError) Unwrap() error {
	return ErrClassificationNotFound
}

// ShiftError names the day and field that failed validation.
type ShiftError struct {
	Day   Day
	Field string
	Value string
}

func (e *ShiftError) Error() string {
	return fmt.Sprintf("invalid %s on %s: %s", e.Field, e.Day, e.Value)
}

func (e *ShiftError) Unwrap() error {
	return ErrInvalidShift
}

// IsMissingSelection reports whether err means no award or classification
// could be resolved.
func IsMissingSelection(err error) bool {
	return errors.Is(err, ErrNoAwardSelected) || errors.Is(err, ErrNoClassification)
}
