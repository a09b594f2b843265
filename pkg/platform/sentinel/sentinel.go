package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into coded domain errors:
//   - ErrNotFound: the row does not exist
//   - ErrConflict: a uniqueness or state precondition did not hold
//   - ErrUnavailable: the backing system could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
