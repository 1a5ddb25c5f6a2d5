package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration covers unknown topics, symbols or timeframes and invalid
	// provisioning inputs. It is never recovered locally.
	ErrConfiguration = errors.New("configuration error")

	// ErrFatalUnavailable means the price fetch failed and there was no
	// previously cached value to fall back to.
	ErrFatalUnavailable = errors.New("price unavailable")

	// ErrAllocationInvariant is returned when remainder distribution cannot
	// terminate (empty priority subset or weights above 100%).
	ErrAllocationInvariant = errors.New("allocation invariant violated")
)

// TransientFetchError wraps a failed market-data lookup. The price cache
// recovers from it when a previous value exists.
type TransientFetchError struct {
	Symbol string
	Err    error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("fetch price for %s: %v", e.Symbol, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// ConfigErrorf returns an error wrapping ErrConfiguration.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
