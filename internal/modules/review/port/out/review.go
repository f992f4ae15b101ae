package out

import (
	"context"
	"time"

	"spacedrep/internal/modules/review/domain"
)

// ReviewStore is the durable review history. Subscribe* streams start with the
// current snapshot, re-emit after each committed review write and close when ctx
// is cancelled.
type ReviewStore interface {
	SubscribeForTopic(ctx context.Context, topicID string) (<-chan []domain.Review, error)
	SubscribeOverdue(ctx context.Context, now time.Time) (<-chan []domain.Review, error)
	SubscribeDueWithin(ctx context.Context, hours int, now time.Time) (<-chan []domain.Review, error)
	SubscribeInRange(ctx context.Context, start, end time.Time) (<-chan []domain.Review, error)

	Get(ctx context.Context, id string) (domain.Review, error)
	// Latest returns the newest review of a topic; found is false when there is none.
	Latest(ctx context.Context, topicID string) (review domain.Review, found bool, err error)
	// Before returns the newest review of a topic older than the given review.
	Before(ctx context.Context, review domain.Review) (prior domain.Review, found bool, err error)
	ListForTopic(ctx context.Context, topicID string) ([]domain.Review, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Review, error)
	ListDueWithin(ctx context.Context, hours int, now time.Time) ([]domain.Review, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]domain.Review, error)

	Add(ctx context.Context, review domain.Review) error
	AddBatch(ctx context.Context, reviews []domain.Review) error
	Update(ctx context.Context, review domain.Review) error
	Delete(ctx context.Context, id string) error
}

// TopicRef is what reviews need to know about a topic.
type TopicRef struct {
	ID       string
	Name     string
	Category string
	IsActive bool
}

type TopicLookup interface {
	Topic(ctx context.Context, topicID string) (TopicRef, error)
}

// SessionProgress records a rating against the active study session, if any.
type SessionProgress interface {
	Record(ctx context.Context, topicID string, correct bool, confidence float64) (recorded bool, err error)
}

// Forecaster gives an independent due-date estimate from a topic's full history.
type Forecaster interface {
	Forecast(history []domain.Review, now time.Time) (time.Time, error)
}
