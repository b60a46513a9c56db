package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/domain"
)

const sessionColumns = `id, year, month, day, weekday, work_date, start, finish, hours, created_at, updated_at`

// SQLiteSessionRepo implements SessionRepo on the log table.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo accepts a *sql.DB or a *sql.Tx.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.WorkSession) error {
	query := `INSERT INTO log (id, year, month, day, weekday, work_date, start, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Year,
		calendar.MonthLabel(s.Month),
		s.Day,
		s.Weekday,
		s.WorkDate,
		formatTime(s.Start),
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return storeErr("inserting work session", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM log WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, storeErr("loading work session", err)
	}
	defer rows.Close()

	sessions, err := r.scanSessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("work session %s: %w", id, ErrNotFound)
	}
	return sessions[0], nil
}

// FindOpen returns the single open session for key. Zero rows is ErrNotFound
// and more than one is ErrAmbiguousMatch.
func (r *SQLiteSessionRepo) FindOpen(ctx context.Context, key SlotKey) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM log
		WHERE weekday = ? AND month = ? AND year = ? AND work_date = ? AND finish IS NULL
		ORDER BY start`
	rows, err := r.db.QueryContext(ctx, query, key.Weekday, calendar.MonthLabel(key.Month), key.Year, key.WorkDate)
	if err != nil {
		return nil, storeErr("finding open session", err)
	}
	defer rows.Close()

	sessions, err := r.scanSessions(rows)
	if err != nil {
		return nil, err
	}
	switch len(sessions) {
	case 0:
		return nil, fmt.Errorf("open session on %s: %w", key.WorkDate, ErrNotFound)
	case 1:
		return sessions[0], nil
	default:
		return nil, fmt.Errorf("%d open sessions on %s: %w", len(sessions), key.WorkDate, ErrAmbiguousMatch)
	}
}

// Close writes finish and hours for s. Only an open row is updated, so a
// session cannot be closed twice.
func (r *SQLiteSessionRepo) Close(ctx context.Context, s *domain.WorkSession) error {
	query := `UPDATE log SET finish = ?, hours = ?, updated_at = ? WHERE id = ? AND finish IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(s.Finish),
		nullableFloatToValue(s.Hours),
		formatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return storeErr("closing work session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("closing work session", err)
	}
	if n == 0 {
		return fmt.Errorf("open work session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

// ListWindow returns the sessions inside w ordered by start. Each branch of
// the predicate carries its own year filter.
func (r *SQLiteSessionRepo) ListWindow(ctx context.Context, w domain.ReportWindow) ([]*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM log
		WHERE (year = ? AND month = ? AND weekday <= ?)
		   OR (year = ? AND month = ? AND weekday > ?)
		ORDER BY start`
	rows, err := r.db.QueryContext(ctx, query,
		w.Year, calendar.MonthLabel(w.Month), w.Threshold,
		w.PrevYear, calendar.MonthLabel(w.PrevMonth), w.Threshold,
	)
	if err != nil {
		return nil, storeErr("querying report window", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListByMonth(ctx context.Context, year int, month time.Month) ([]*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM log WHERE year = ? AND month = ? ORDER BY start`
	rows, err := r.db.QueryContext(ctx, query, year, calendar.MonthLabel(month))
	if err != nil {
		return nil, storeErr("listing sessions by month", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession
	for rows.Next() {
		var s domain.WorkSession
		var monthStr, startStr, createdStr, updatedStr string
		var finish sql.NullString
		var hours sql.NullFloat64

		err := rows.Scan(&s.ID, &s.Year, &monthStr, &s.Day, &s.Weekday, &s.WorkDate,
			&startStr, &finish, &hours, &createdStr, &updatedStr)
		if err != nil {
			return nil, storeErr("scanning work session", err)
		}
		if err := populateSession(&s, monthStr, startStr, finish, hours, createdStr, updatedStr); err != nil {
			return nil, storeErr("decoding work session "+s.ID, err)
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating work sessions", err)
	}
	return sessions, nil
}

// populateSession fills the typed fields from raw column strings. Audit
// columns are empty on upgraded legacy rows and are left zero.
func populateSession(s *domain.WorkSession, monthStr, startStr string, finish sql.NullString, hours sql.NullFloat64, createdStr, updatedStr string) error {
	var err error
	if s.Month, err = calendar.ParseMonthLabel(monthStr); err != nil {
		return err
	}
	if s.Start, err = parseStoredTime(startStr); err != nil {
		return err
	}
	if s.Finish, err = parseNullableTime(finish); err != nil {
		return err
	}
	s.Hours = nullableFloat(hours)

	for _, f := range []struct {
		raw string
		dst *time.Time
	}{{createdStr, &s.CreatedAt}, {updatedStr, &s.UpdatedAt}} {
		if f.raw == "" {
			continue
		}
		t, perr := parseStoredTime(f.raw)
		if perr != nil {
			return perr
		}
		*f.dst = t
	}
	return nil
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
