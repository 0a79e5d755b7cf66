package application

import "errors"

var (
	// ErrNoUser is returned when no user key is supplied.
	ErrNoUser = errors.New("no logged-in user")
	// ErrInvalidDogID is returned for a blank dog identifier.
	ErrInvalidDogID = errors.New("dog id is required")
)
