package out

import (
	"context"
	"time"

	reviewdomain "spacedrep/internal/modules/review/domain"
	sessiondomain "spacedrep/internal/modules/session/domain"
	topicdomain "spacedrep/internal/modules/topic/domain"
)

// ReviewFilter narrows a review scan. Zero values leave a bound open; Until is
// exclusive.
type ReviewFilter struct {
	TopicID string
	Since   time.Time
	Until   time.Time
}

// ReviewCursor is the position after the last review of a page, in
// (reviewed_at, id) order.
type ReviewCursor struct {
	ReviewedAt time.Time
	ID         string
}

type ReviewPage struct {
	Reviews []reviewdomain.Review
	// Next is nil on the last page.
	Next *ReviewCursor
}

// HistoryReader is the read side analytics folds over. Reviews are paged so a
// large history never has to sit in memory at once.
type HistoryReader interface {
	ReviewPage(ctx context.Context, filter ReviewFilter, after *ReviewCursor, limit int) (ReviewPage, error)
	// LatestReviews maps each reviewed topic to its newest review.
	LatestReviews(ctx context.Context) (map[string]reviewdomain.Review, error)
	// Topics returns every topic, soft-deleted ones included.
	Topics(ctx context.Context) ([]topicdomain.Topic, error)
	// SessionsSince returns sessions started at or after since, oldest first. A
	// zero since returns all of them.
	SessionsSince(ctx context.Context, since time.Time) ([]sessiondomain.StudySession, error)
	Session(ctx context.Context, id string) (sessiondomain.StudySession, error)
}
