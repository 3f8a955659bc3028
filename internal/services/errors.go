package services

import "errors"

// Precondition failures returned by the services. Data-quality conditions are
// reported in results instead.
var (
	ErrCompetitionYearNotFound = errors.New("competition year not found")
	ErrChildNotFound           = errors.New("child not found")
	ErrInvalidBundle           = errors.New("invalid text bundle")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrAmbiguousRule           = errors.New("grade matches more than one rule")
	ErrScriptureNotFound       = errors.New("scripture not found")
)
