package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// SlotKey identifies the open session an exit should close. Weekday and
// Month are the original row key; Year and WorkDate narrow it so the same
// weekday in another week of the month cannot collide.
type SlotKey struct {
	Year     int
	Month    time.Month
	Weekday  int
	WorkDate string
}

// SessionRepo persists work sessions. Implementations wrap driver failures
// in ErrPersistence.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.WorkSession) error
	GetByID(ctx context.Context, id string) (*domain.WorkSession, error)
	FindOpen(ctx context.Context, key SlotKey) (*domain.WorkSession, error)
	Close(ctx context.Context, s *domain.WorkSession) error
	ListWindow(ctx context.Context, w domain.ReportWindow) ([]*domain.WorkSession, error)
	ListByMonth(ctx context.Context, year int, month time.Month) ([]*domain.WorkSession, error)
}
