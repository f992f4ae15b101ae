package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spacedrep/internal/modules/session/domain"
	sessionout "spacedrep/internal/modules/session/port/out"
	"spacedrep/internal/platform/clock"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/id"
	"spacedrep/internal/platform/logger"
)

type SessionService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   sessionout.SessionStore
	journal sessionout.SessionJournal
	log     *logger.Logger
}

// NewSessionService builds the service. journal may be nil to skip session notes.
func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore, journal sessionout.SessionJournal, log *logger.Logger) *SessionService {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionService{clock: clock, idGen: idGen, store: store, journal: journal, log: log.With("service", "SessionService")}
}

func (s *SessionService) Start(ctx context.Context, goal string) (domain.StudySession, error) {
	session, err := domain.NewStudySession(s.idGen.New(), s.clock.Now(), goal)
	if err != nil {
		return domain.StudySession{}, err
	}
	if err := s.store.Start(ctx, session); err != nil {
		return domain.StudySession{}, err
	}
	s.log.Info("session started", "session_id", session.ID)
	return session, nil
}

func (s *SessionService) RecordProgress(ctx context.Context, topicID string, correct bool, confidence float64) (domain.StudySession, error) {
	active, err := s.store.Active(ctx)
	if err != nil {
		return domain.StudySession{}, err
	}
	next, err := active.WithProgress(topicID, correct, confidence)
	if err != nil {
		return domain.StudySession{}, err
	}
	if err := s.store.UpdateProgress(ctx, next); err != nil {
		return domain.StudySession{}, err
	}
	s.log.Debug("session progress recorded", "session_id", next.ID, "topic_id", topicID, "reviewed", next.TotalReviewed)
	return next, nil
}

// End finalizes the active session. sessionID, when given, must name it. The
// returned path is empty when no journal is configured.
func (s *SessionService) End(ctx context.Context, sessionID, outcome string) (domain.StudySession, string, error) {
	active, err := s.store.Active(ctx)
	if err != nil {
		return domain.StudySession{}, "", err
	}
	if id := strings.TrimSpace(sessionID); id != "" && id != active.ID {
		return domain.StudySession{}, "", fmt.Errorf("%w: session id mismatch", apperrors.ErrInvalidInput)
	}
	ended, err := active.Finalize(s.clock.Now(), outcome)
	if err != nil {
		return domain.StudySession{}, "", err
	}
	if err := s.store.End(ctx, ended); err != nil {
		return domain.StudySession{}, "", err
	}
	s.log.Info("session ended",
		"session_id", ended.ID,
		"duration_minutes", ended.DurationMinutes(),
		"reviewed", ended.TotalReviewed,
		"quality", ended.Quality().String(),
	)
	if s.journal == nil {
		return ended, "", nil
	}
	path, err := s.journal.Save(ctx, ended)
	if err != nil {
		return domain.StudySession{}, "", fmt.Errorf("write session journal: %w", err)
	}
	return ended, path, nil
}

func (s *SessionService) Active(ctx context.Context) (domain.StudySession, error) {
	return s.store.Active(ctx)
}

func (s *SessionService) Get(ctx context.Context, id string) (domain.StudySession, error) {
	if strings.TrimSpace(id) == "" {
		return domain.StudySession{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return s.store.Get(ctx, strings.TrimSpace(id))
}

func (s *SessionService) List(ctx context.Context, days int) ([]domain.StudySession, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must be non-negative", apperrors.ErrInvalidInput)
	}
	if days == 0 {
		return s.store.List(ctx)
	}
	now := s.clock.Now()
	return s.store.ListInRange(ctx, now.Add(-time.Duration(days)*24*time.Hour), now.Add(time.Nanosecond))
}

func (s *SessionService) Watch(ctx context.Context) (<-chan []domain.StudySession, error) {
	return s.store.SubscribeAll(ctx)
}
