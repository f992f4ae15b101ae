package out

import (
	"context"
	"time"

	"spacedrep/internal/modules/session/domain"
)

// SessionStore owns the single-active-session invariant: Start fails with
// apperrors.ErrActiveSessionExists while another session is open.
type SessionStore interface {
	SubscribeAll(ctx context.Context) (<-chan []domain.StudySession, error)
	Get(ctx context.Context, id string) (domain.StudySession, error)
	// Active returns apperrors.ErrNoActiveSession when no session is open.
	Active(ctx context.Context) (domain.StudySession, error)
	List(ctx context.Context) ([]domain.StudySession, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]domain.StudySession, error)

	Start(ctx context.Context, session domain.StudySession) error
	UpdateProgress(ctx context.Context, session domain.StudySession) error
	End(ctx context.Context, session domain.StudySession) error
}

// SessionJournal keeps a human-readable note per finished session.
type SessionJournal interface {
	Save(ctx context.Context, session domain.StudySession) (string, error)
}
