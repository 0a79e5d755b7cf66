package application

import "errors"

var (
	// ErrBusy rejects pagination while a fetch is in flight; the cursors it
	// would follow are about to be replaced.
	ErrBusy = errors.New("search is already loading")
	// ErrInvalidFilters wraps filter validation failures.
	ErrInvalidFilters = errors.New("invalid search filters")
	// ErrIncompletePage signals that some result ids could not be resolved
	// into dog records, so the page was not shown.
	ErrIncompletePage = errors.New("search page could not be fully resolved")
)
