package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"spacedrep/internal/modules/review/domain"
	reviewout "spacedrep/internal/modules/review/port/out"
	"spacedrep/internal/platform/clock"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/id"
	"spacedrep/internal/platform/logger"
	"spacedrep/internal/platform/tx"
)

type ReviewService struct {
	clock      clock.Clock
	idGen      id.Generator
	store      reviewout.ReviewStore
	topics     reviewout.TopicLookup
	sessions   reviewout.SessionProgress
	forecaster reviewout.Forecaster
	txm        tx.Manager
	log        *logger.Logger
}

type Deps struct {
	Clock      clock.Clock
	IDs        id.Generator
	Store      reviewout.ReviewStore
	Topics     reviewout.TopicLookup
	Sessions   reviewout.SessionProgress
	Forecaster reviewout.Forecaster
	Tx         tx.Manager
	Log        *logger.Logger
}

func NewReviewService(deps Deps) *ReviewService {
	if deps.Tx == nil {
		deps.Tx = tx.NoopManager{}
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	return &ReviewService{
		clock:      deps.Clock,
		idGen:      deps.IDs,
		store:      deps.Store,
		topics:     deps.Topics,
		sessions:   deps.Sessions,
		forecaster: deps.Forecaster,
		txm:        deps.Tx,
		log:        deps.Log.With("service", "ReviewService"),
	}
}

// RateResult is a stored review together with the scheduling outcome that
// produced it.
type RateResult struct {
	Review          domain.Review
	Result          domain.SpacedRepetitionResult
	SessionRecorded bool
}

// Rate schedules the next review of an active topic, stores it and counts it
// toward the active session. The writes commit together.
func (s *ReviewService) Rate(ctx context.Context, topicID, confidence string) (RateResult, error) {
	level, err := domain.ParseConfidenceLevel(confidence)
	if err != nil {
		return RateResult{}, err
	}
	topicID = strings.TrimSpace(topicID)
	topic, err := s.topics.Topic(ctx, topicID)
	if err != nil {
		return RateResult{}, err
	}
	if !topic.IsActive {
		return RateResult{}, fmt.Errorf("%w: topic %s is inactive", apperrors.ErrInvalidInput, topicID)
	}

	now := s.clock.Now()
	var out RateResult
	err = s.txm.Within(ctx, func(ctx context.Context) error {
		latest, found, err := s.store.Latest(ctx, topicID)
		if err != nil {
			return err
		}
		var prior *domain.Review
		if found {
			prior = &latest
		}
		res, err := domain.Schedule(prior, level, now)
		if err != nil {
			return err
		}
		review, err := res.ToReview(s.idGen.New(), topicID, now)
		if err != nil {
			return err
		}
		if err := s.store.Add(ctx, review); err != nil {
			return err
		}
		recorded := false
		if s.sessions != nil {
			recorded, err = s.sessions.Record(ctx, topicID, res.WasCorrect, level.Multiplier())
			if err != nil {
				return fmt.Errorf("record session progress: %w", err)
			}
		}
		out = RateResult{Review: review, Result: res, SessionRecorded: recorded}
		return nil
	})
	if err != nil {
		return RateResult{}, err
	}
	s.log.Info("review recorded",
		"topic_id", topicID,
		"confidence", level.String(),
		"interval_days", out.Result.IntervalDays,
		"ease_factor", out.Result.EaseFactor,
		"session", out.SessionRecorded,
	)
	return out, nil
}

func (s *ReviewService) History(ctx context.Context, topicID string) ([]domain.Review, error) {
	if strings.TrimSpace(topicID) == "" {
		return nil, fmt.Errorf("%w: topic id is required", apperrors.ErrInvalidInput)
	}
	return s.store.ListForTopic(ctx, strings.TrimSpace(topicID))
}

func (s *ReviewService) Latest(ctx context.Context, topicID string) (domain.Review, bool, error) {
	return s.store.Latest(ctx, strings.TrimSpace(topicID))
}

// OverdueItem is an overdue review with its derived urgency.
type OverdueItem struct {
	Review      domain.Review
	TopicName   string
	DaysOverdue int
	Urgency     domain.UrgencyLevel
}

// Overdue lists the latest overdue review of every active topic, most urgent
// first.
func (s *ReviewService) Overdue(ctx context.Context) ([]OverdueItem, error) {
	now := s.clock.Now()
	reviews, err := s.store.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	return s.rankOverdue(ctx, reviews, now)
}

// WatchOverdue streams Overdue as reviews change, evaluated against the time the
// watch started.
func (s *ReviewService) WatchOverdue(ctx context.Context) (<-chan []OverdueItem, error) {
	now := s.clock.Now()
	stream, err := s.store.SubscribeOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	out := make(chan []OverdueItem)
	go func() {
		defer close(out)
		for reviews := range stream {
			items, err := s.rankOverdue(ctx, reviews, now)
			if err != nil {
				s.log.Warn("overdue refresh failed", "error", err)
				continue
			}
			select {
			case out <- items:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *ReviewService) rankOverdue(ctx context.Context, reviews []domain.Review, now time.Time) ([]OverdueItem, error) {
	items := make([]OverdueItem, 0, len(reviews))
	for _, review := range reviews {
		topic, err := s.topics.Topic(ctx, review.TopicID)
		if err != nil {
			return nil, fmt.Errorf("lookup topic %s: %w", review.TopicID, err)
		}
		items = append(items, OverdueItem{
			Review:      review,
			TopicName:   topic.Name,
			DaysOverdue: domain.DaysOverdue(review, now),
			Urgency:     domain.Urgency(review, now),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Urgency != items[j].Urgency {
			return items[i].Urgency > items[j].Urgency
		}
		if items[i].DaysOverdue != items[j].DaysOverdue {
			return items[i].DaysOverdue > items[j].DaysOverdue
		}
		return items[i].TopicName < items[j].TopicName
	})
	return items, nil
}

func (s *ReviewService) DueWithin(ctx context.Context, hours int) ([]domain.Review, error) {
	if hours < 1 {
		return nil, fmt.Errorf("%w: hours must be at least 1", apperrors.ErrInvalidInput)
	}
	return s.store.ListDueWithin(ctx, hours, s.clock.Now())
}

// Correct replaces the rating of a topic's latest review and recomputes its
// schedule from the review before it. Older reviews fed later schedules and
// cannot be corrected.
func (s *ReviewService) Correct(ctx context.Context, reviewID, confidence string) (domain.Review, error) {
	level, err := domain.ParseConfidenceLevel(confidence)
	if err != nil {
		return domain.Review{}, err
	}
	var corrected domain.Review
	err = s.txm.Within(ctx, func(ctx context.Context) error {
		review, err := s.store.Get(ctx, strings.TrimSpace(reviewID))
		if err != nil {
			return err
		}
		latest, _, err := s.store.Latest(ctx, review.TopicID)
		if err != nil {
			return err
		}
		if latest.ID != review.ID {
			return fmt.Errorf("%w: only the latest review of a topic can be corrected", apperrors.ErrInvalidInput)
		}
		before, found, err := s.store.Before(ctx, review)
		if err != nil {
			return err
		}
		var prior *domain.Review
		if found {
			prior = &before
		}
		res, err := domain.Schedule(prior, level, review.ReviewedAt)
		if err != nil {
			return err
		}
		corrected, err = res.ToReview(review.ID, review.TopicID, review.ReviewedAt)
		if err != nil {
			return err
		}
		return s.store.Update(ctx, corrected)
	})
	if err != nil {
		return domain.Review{}, err
	}
	s.log.Info("review corrected", "review_id", corrected.ID, "confidence", level.String())
	return corrected, nil
}

func (s *ReviewService) Delete(ctx context.Context, reviewID string) error {
	if strings.TrimSpace(reviewID) == "" {
		return fmt.Errorf("%w: review id is required", apperrors.ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, strings.TrimSpace(reviewID)); err != nil {
		return err
	}
	s.log.Info("review deleted", "review_id", reviewID)
	return nil
}

// TopicSchedule summarises where a topic stands in its review cycle.
type TopicSchedule struct {
	Topic       reviewout.TopicRef
	Latest      domain.Review
	Reviewed    bool
	Due         bool
	DaysOverdue int
	Urgency     domain.UrgencyLevel
	FSRSDue     time.Time
}

func (s *ReviewService) Schedule(ctx context.Context, topicID string) (TopicSchedule, error) {
	topicID = strings.TrimSpace(topicID)
	topic, err := s.topics.Topic(ctx, topicID)
	if err != nil {
		return TopicSchedule{}, err
	}
	now := s.clock.Now()
	out := TopicSchedule{Topic: topic, Due: true, Urgency: domain.UrgencyLow}
	history, err := s.store.ListForTopic(ctx, topicID)
	if err != nil {
		return TopicSchedule{}, err
	}
	if len(history) == 0 {
		return out, nil
	}
	latest := history[len(history)-1]
	out.Latest = latest
	out.Reviewed = true
	out.Due = !now.Before(latest.NextReviewDate)
	out.DaysOverdue = domain.DaysOverdue(latest, now)
	out.Urgency = domain.Urgency(latest, now)
	if s.forecaster != nil {
		due, err := s.forecaster.Forecast(history, now)
		if err != nil {
			s.log.Warn("fsrs forecast failed", "topic_id", topicID, "error", err)
		} else {
			out.FSRSDue = due
		}
	}
	return out, nil
}
