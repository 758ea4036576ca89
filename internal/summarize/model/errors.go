package model

import "errors"

// Failure taxonomy for the request pipeline. Handlers classify with
// errors.Is and translate each into a user-visible notice; none of these is
// ever stored as summary text.
var (
	// ErrNotFound covers both missing records and ownership mismatches, so
	// a caller cannot distinguish "does not exist" from "not yours".
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUser is returned when a registration reuses a username.
	ErrDuplicateUser = errors.New("username already exists")

	// ErrInvalidCredentials covers wrong username and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMissingAPIKey means the generation backend is not configured; the
	// request is rejected before any generation attempt.
	ErrMissingAPIKey = errors.New("generation API key is not configured")
)
