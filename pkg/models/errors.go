package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates an operation referenced an unknown preset, collection,
// or theme id.
var ErrNotFound = errors.New("resource not found")

// ErrImmutable indicates an update or delete was attempted on a built-in
// preset or theme. The catalog is left unchanged.
var ErrImmutable = errors.New("built-in resources are immutable")

// ValidationError aggregates every missing or invalid field found during a
// create/update call. It is always raised before any write occurs.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// NewValidationError wraps a non-empty problem list. Returns nil when there
// are no problems, so callers can `return models.NewValidationError(probs)`.
func NewValidationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// StorageError marks a recoverable persistence failure: a stored blob could
// not be read or parsed. Catalog construction degrades to an empty collection
// for the affected key instead of failing.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for key %q: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// StoreSettings holds user-tunable behavior of the preset store.
type StoreSettings struct {
	AutoBackup         bool            `json:"autoBackup"`
	MaxRecentlyUsed    int             `json:"maxRecentlyUsed" example:"10"`
	DefaultMode        ApplicationMode `json:"defaultApplicationMode" example:"merge"`
	SuggestionsEnabled bool            `json:"suggestionsEnabled"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() StoreSettings {
	return StoreSettings{
		AutoBackup:         true,
		MaxRecentlyUsed:    10,
		DefaultMode:        ModeMerge,
		SuggestionsEnabled: true,
	}
}
