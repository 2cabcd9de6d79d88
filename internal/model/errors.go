package model

import "errors"

// Sentinel errors shared by every repository and service. They are always
// wrapped with context, callers match them with errors.Is.
var (
	// ErrNotFound is returned when a task or staff member does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a staff code is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when input fails validation, including illegal
	// lifecycle transitions.
	ErrNotValid = errors.New("not valid")
)
