package main

import (
	"errors"

	"github.com/bible-bee-api/internal/importer"
	"github.com/bible-bee-api/internal/services"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitStorage    = 4
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classify attaches an exit code to a service or storage error
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, importer.ErrInvalidFile),
		errors.Is(err, services.ErrInvalidBundle),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrCompetitionYearNotFound),
		errors.Is(err, services.ErrChildNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrScriptureNotFound),
		errors.Is(err, services.ErrAmbiguousRule):
		return withCode(exitValidation, err)
	default:
		return withCode(exitStorage, err)
	}
}
