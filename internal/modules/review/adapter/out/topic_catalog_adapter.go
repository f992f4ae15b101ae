package out

import (
	"context"

	reviewout "spacedrep/internal/modules/review/port/out"
	topicin "spacedrep/internal/modules/topic/port/in"
)

// TopicCatalogAdapter resolves topics through the topic module.
type TopicCatalogAdapter struct {
	topics topicin.Usecase
}

func NewTopicCatalogAdapter(topics topicin.Usecase) reviewout.TopicLookup {
	return &TopicCatalogAdapter{topics: topics}
}

func (a *TopicCatalogAdapter) Topic(ctx context.Context, topicID string) (reviewout.TopicRef, error) {
	topic, err := a.topics.Get(ctx, topicID)
	if err != nil {
		return reviewout.TopicRef{}, err
	}
	return reviewout.TopicRef{ID: topic.ID, Name: topic.Name, Category: topic.Category, IsActive: topic.IsActive}, nil
}
