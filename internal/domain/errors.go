package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("hotels: not found")
	ErrNotReady         = errors.New("hotels: catalog not ready")
	ErrMalformedPayload = errors.New("supplier: response is not a JSON array")
)

// FetchError wraps any failure of a single supplier fetch. One FetchError
// aborts the whole refresh cycle.
type FetchError struct {
	Supplier string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Supplier, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
