package repository

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/worklog/internal/db"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousMatch is returned when a lookup expecting one row finds several.
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// ErrPersistence wraps every failure reported by the underlying store,
	// including transaction begin and commit failures from db.
	ErrPersistence = db.ErrPersistence
)

// storeErr tags a driver error with ErrPersistence while keeping the cause.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
