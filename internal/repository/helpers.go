package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// storedLayouts lists accepted formats for start/finish, newest first.
// Rows written before the schema upgrade used the interchange format.
var storedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseStoredTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range storedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, firstErr)
}

// parseNullableTime parses a nullable timestamp column. NULL or empty yields nil.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseStoredTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableTimeToString converts a *time.Time into a value for SQLite.
// nil becomes SQL NULL.
func nullableTimeToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullableFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
