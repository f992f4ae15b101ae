package out

import (
	"context"
	"time"

	"spacedrep/internal/modules/topic/domain"
)

// TopicStore is the durable topic collection. Subscribe* streams start with the
// current snapshot and re-emit after every committed change that may affect the
// query; they close when ctx is cancelled.
type TopicStore interface {
	SubscribeActive(ctx context.Context) (<-chan []domain.Topic, error)
	SubscribeByCategory(ctx context.Context, category string) (<-chan []domain.Topic, error)
	SubscribeDueForReview(ctx context.Context, now time.Time) (<-chan []domain.Topic, error)

	Get(ctx context.Context, id string) (domain.Topic, error)
	ListActive(ctx context.Context) ([]domain.Topic, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Topic, error)
	ListDueForReview(ctx context.Context, now time.Time) ([]domain.Topic, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string) ([]domain.Topic, error)

	Add(ctx context.Context, topic domain.Topic) (domain.Topic, error)
	AddBatch(ctx context.Context, topics []domain.Topic) ([]domain.Topic, error)
	Update(ctx context.Context, topic domain.Topic) (domain.Topic, error)
	UpdateBatch(ctx context.Context, topics []domain.Topic) ([]domain.Topic, error)
	SoftDelete(ctx context.Context, id string) error
}
