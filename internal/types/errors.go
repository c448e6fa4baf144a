package types

import "errors"

// Errors returned by the conversion pipeline. They are wrapped together with
// the underlying cause, so callers should test them with errors.Is.
var (
	// ErrMalformedInput means every JSON parse strategy failed.
	ErrMalformedInput = errors.New("malformed JSON input")

	// ErrMissingFile means the input path does not exist.
	ErrMissingFile = errors.New("input file does not exist")

	// ErrInvalidYearFormat means the filter year is not exactly 4 digits.
	ErrInvalidYearFormat = errors.New("year must be in YYYY format (e.g. 2023)")

	// ErrIOFailure wraps file read and write failures.
	ErrIOFailure = errors.New("i/o failure")
)
