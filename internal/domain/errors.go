package domain

import "errors"

// Sentinel errors shared by every layer. The database adapter maps driver
// conditions onto these; handlers and transports branch with errors.Is.
var (
	// ErrNotFound covers missing rows and foreign keys pointing nowhere.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports a uniqueness conflict among live rows.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation reports data a database constraint refused.
	ErrValidation = errors.New("validation error")

	// ErrConcurrency reports a row-version mismatch on save: the row
	// changed after the caller read it.
	ErrConcurrency = errors.New("concurrency conflict")

	// ErrUnauthorized reports a rejected credential.
	ErrUnauthorized = errors.New("unauthorized")
)
