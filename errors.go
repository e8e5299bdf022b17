package itfaker

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/itfaker/weighted"
)

var (
	// ErrInvalidArgument reports a malformed weighted catalog or an empty
	// title list.
	ErrInvalidArgument = weighted.ErrInvalidArgument

	// ErrDataUnavailable reports that the corpus could not supply or parse a
	// gender catalog. Returned errors are *LoadError values matching it.
	ErrDataUnavailable = errors.New("itfaker: name data unavailable")

	// ErrNotLoaded is returned when selecting from a catalog that holds no
	// published load.
	ErrNotLoaded = errors.New("itfaker: catalog not loaded")
)

// LoadError is returned when a catalog load fails. The catalog stays
// Unloaded, so a later call retries.
type LoadError struct {
	Category string // empty when the failure was not tied to one category
	Err      error
}

func (e *LoadError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("itfaker: load name data: %v", e.Err)
	}
	return fmt.Sprintf("itfaker: load %s names: %v", e.Category, e.Err)
}

// Unwrap exposes both ErrDataUnavailable and the underlying cause to
// errors.Is / errors.As.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, 2)
	errs = append(errs, ErrDataUnavailable)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
