package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"spacedrep/internal/modules/analytics/domain"
	analyticsout "spacedrep/internal/modules/analytics/port/out"
	reviewdomain "spacedrep/internal/modules/review/domain"
	"spacedrep/internal/platform/clock"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/logger"
)

const pageSize = 500

type Options struct {
	Stats domain.StatsOptions
	// HistoryDays is the window used when a caller passes 0 days.
	HistoryDays int
}

func DefaultOptions() Options {
	return Options{Stats: domain.DefaultStatsOptions(), HistoryDays: 30}
}

type AnalyticsService struct {
	clock  clock.Clock
	reader analyticsout.HistoryReader
	opts   Options
	log    *logger.Logger
}

func NewAnalyticsService(clock clock.Clock, reader analyticsout.HistoryReader, opts Options, log *logger.Logger) *AnalyticsService {
	if opts.HistoryDays < 1 {
		opts.HistoryDays = DefaultOptions().HistoryDays
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AnalyticsService{clock: clock, reader: reader, opts: opts, log: log.With("service", "AnalyticsService")}
}

// ReviewStats folds every review, or only topicID's when it is set.
func (s *AnalyticsService) ReviewStats(ctx context.Context, topicID string) (domain.ReviewStats, error) {
	return s.reviewStats(ctx, strings.TrimSpace(topicID), s.clock.Now())
}

func (s *AnalyticsService) reviewStats(ctx context.Context, topicID string, now time.Time) (domain.ReviewStats, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return domain.ReviewStats{}, err
	}
	if topicID != "" {
		if _, ok := catalog[topicID]; !ok {
			return domain.ReviewStats{}, fmt.Errorf("%w: topic %s", apperrors.ErrNotFound, topicID)
		}
	}
	acc := domain.NewReviewStatsAccumulator(now, catalog, s.opts.Stats)
	err = s.eachPage(ctx, analyticsout.ReviewFilter{TopicID: topicID}, func(reviews []reviewdomain.Review) error {
		return acc.Add(reviews...)
	})
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("fold review stats: %w", err)
	}
	stats := acc.Result()
	sessions, err := s.reader.SessionsSince(ctx, time.Time{})
	if err != nil {
		return domain.ReviewStats{}, err
	}
	stats.AverageSessionDuration, err = domain.AverageSessionMinutes(sessions, topicID)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("average session duration: %w", err)
	}
	return stats, nil
}

// RetentionHistory returns one point per calendar day over the trailing days.
func (s *AnalyticsService) RetentionHistory(ctx context.Context, days int) ([]domain.RetentionDataPoint, error) {
	days, err := s.days(days)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	history := domain.NewRetentionHistory(days, now)
	filter := analyticsout.ReviewFilter{Since: windowStart(days, now), Until: windowEnd(now)}
	err = s.eachPage(ctx, filter, func(reviews []reviewdomain.Review) error {
		return history.Add(reviews...)
	})
	if err != nil {
		return nil, fmt.Errorf("fold retention history: %w", err)
	}
	return history.Points(), nil
}

// SessionStats summarises one session from the reviews of its topics made while
// it ran. An active session is measured up to now.
func (s *AnalyticsService) SessionStats(ctx context.Context, sessionID string) (domain.StudySessionStats, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.StudySessionStats{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	session, err := s.reader.Session(ctx, sessionID)
	if err != nil {
		return domain.StudySessionStats{}, err
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return domain.StudySessionStats{}, err
	}
	end := s.clock.Now()
	if session.EndTime != nil {
		end = *session.EndTime
	}
	studied := make(map[string]bool, len(session.TopicsReviewed))
	for _, topicID := range session.TopicsReviewed {
		studied[topicID] = true
	}
	var reviews []reviewdomain.Review
	filter := analyticsout.ReviewFilter{Since: session.StartTime, Until: end.Add(time.Millisecond)}
	err = s.eachPage(ctx, filter, func(page []reviewdomain.Review) error {
		for _, review := range page {
			if studied[review.TopicID] {
				reviews = append(reviews, review)
			}
		}
		return nil
	})
	if err != nil {
		return domain.StudySessionStats{}, err
	}
	return domain.ComputeStudySessionStats(session, reviews, catalog)
}

func (s *AnalyticsService) SessionAnalytics(ctx context.Context, days int) (domain.SessionAnalytics, error) {
	days, err := s.days(days)
	if err != nil {
		return domain.SessionAnalytics{}, err
	}
	return s.sessionAnalytics(ctx, days, s.clock.Now())
}

func (s *AnalyticsService) sessionAnalytics(ctx context.Context, days int, now time.Time) (domain.SessionAnalytics, error) {
	// The streak may reach back past the window, so every session is loaded.
	sessions, err := s.reader.SessionsSince(ctx, time.Time{})
	if err != nil {
		return domain.SessionAnalytics{}, err
	}
	return domain.ComputeSessionAnalytics(sessions, days, now)
}

func (s *AnalyticsService) TopicStats(ctx context.Context) (domain.TopicStats, error) {
	topics, err := s.reader.Topics(ctx)
	if err != nil {
		return domain.TopicStats{}, err
	}
	return domain.ComputeTopicStats(topics)
}

// TopicProgress classifies every active topic by its latest review.
func (s *AnalyticsService) TopicProgress(ctx context.Context) ([]domain.TopicProgress, error) {
	topics, err := s.reader.Topics(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.reader.LatestReviews(ctx)
	if err != nil {
		return nil, err
	}
	active := topics[:0:0]
	for _, topic := range topics {
		if topic.IsActive {
			active = append(active, topic)
		}
	}
	return domain.ClassifyTopics(active, latest)
}

type Dashboard struct {
	GeneratedAt time.Time
	Reviews     domain.ReviewStats
	Topics      domain.TopicStats
	Sessions    domain.SessionAnalytics
}

// Dashboard loads review, topic and session aggregates concurrently against a
// single now.
func (s *AnalyticsService) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.clock.Now()
	board := Dashboard{GeneratedAt: now}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.reviewStats(gctx, "", now)
		if err != nil {
			return fmt.Errorf("review stats: %w", err)
		}
		board.Reviews = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.TopicStats(gctx)
		if err != nil {
			return fmt.Errorf("topic stats: %w", err)
		}
		board.Topics = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.sessionAnalytics(gctx, s.opts.HistoryDays, now)
		if err != nil {
			return fmt.Errorf("session analytics: %w", err)
		}
		board.Sessions = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("dashboard load failed", "error", err)
		return Dashboard{}, err
	}
	return board, nil
}

func (s *AnalyticsService) catalog(ctx context.Context) (domain.TopicCatalog, error) {
	topics, err := s.reader.Topics(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewTopicCatalog(topics), nil
}

func (s *AnalyticsService) eachPage(ctx context.Context, filter analyticsout.ReviewFilter, fn func([]reviewdomain.Review) error) error {
	var cursor *analyticsout.ReviewCursor
	for {
		page, err := s.reader.ReviewPage(ctx, filter, cursor, pageSize)
		if err != nil {
			return err
		}
		if err := fn(page.Reviews); err != nil {
			return err
		}
		if page.Next == nil {
			return nil
		}
		cursor = page.Next
	}
}

func (s *AnalyticsService) days(days int) (int, error) {
	switch {
	case days < 0:
		return 0, fmt.Errorf("%w: days must not be negative", apperrors.ErrInvalidInput)
	case days == 0:
		return s.opts.HistoryDays, nil
	}
	return days, nil
}

func windowStart(days int, now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1-days)
}

func windowEnd(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
