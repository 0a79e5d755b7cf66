package application

import "errors"

var (
	// ErrNotLoggedIn is returned when no user key is available.
	ErrNotLoggedIn = errors.New("user is not logged in")
	// ErrNoFavorites is returned when the favorites set is empty.
	ErrNoFavorites = errors.New("no favorites found")
	// ErrNoMatch is returned when the service answered without an identifier.
	ErrNoMatch = errors.New("no match found")
	// ErrNoMatchDetails is returned when the matched id resolved to no record.
	ErrNoMatchDetails = errors.New("no match details found")
	// ErrBusy rejects a run while another run of the same workflow is in flight.
	ErrBusy = errors.New("match is already being generated")
	// ErrMatchFailed wraps transport failures of either step.
	ErrMatchFailed = errors.New("failed to generate match")
)
