package domain

import (
	"errors"
	"fmt"
)

// ErrMissingConfig is returned when a required credential or setting is empty.
var ErrMissingConfig = errors.New("missing configuration")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotFound is returned when a file or directory does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a create or paste would overwrite an entry.
var ErrAlreadyExists = errors.New("already exists")

// ErrOutsideRoot is returned when a path resolves outside the explorer root.
var ErrOutsideRoot = errors.New("path outside explorer root")

// ErrInvalidName is returned for empty names or names containing separators.
var ErrInvalidName = errors.New("invalid name")

// ErrInvalidRequest is returned for malformed API input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrClipboardEmpty is returned when pasting without a copy source.
var ErrClipboardEmpty = errors.New("nothing to paste")

// ErrEmptyQuery is returned when a search is attempted without a query.
var ErrEmptyQuery = errors.New("empty search query")

// ErrFaceNotDetected is returned when either photo has no detectable face.
var ErrFaceNotDetected = errors.New("face not detected in one or both photos")

// MissingConfigError names the configuration key that was empty.
type MissingConfigError struct {
	Key string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("%s: %s is not set", ErrMissingConfig, e.Key)
}

func (e *MissingConfigError) Unwrap() error {
	return ErrMissingConfig
}

// RequireConfig returns a MissingConfigError for the first empty value.
// Pairs are given as key, value, key, value...
func RequireConfig(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &MissingConfigError{Key: pairs[i]}
		}
	}
	return nil
}
