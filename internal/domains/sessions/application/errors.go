package application

import "errors"

var (
	// ErrNoSession is returned when a request carries no known portal session.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidLogin wraps login input validation failures.
	ErrInvalidLogin = errors.New("invalid login")
	// ErrAuthentication is returned when the dog service rejected or failed a
	// login or logout call.
	ErrAuthentication = errors.New("authentication failed")
)
