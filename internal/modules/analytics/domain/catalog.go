package domain

import (
	"fmt"

	topicdomain "spacedrep/internal/modules/topic/domain"
	apperrors "spacedrep/internal/platform/errors"
)

// TopicCatalog resolves topic ids seen in reviews and sessions. A nil catalog is
// valid and disables category and difficulty breakdowns.
type TopicCatalog map[string]topicdomain.Topic

func NewTopicCatalog(topics []topicdomain.Topic) TopicCatalog {
	catalog := make(TopicCatalog, len(topics))
	for _, topic := range topics {
		catalog[topic.ID] = topic
	}
	return catalog
}

func (c TopicCatalog) lookup(topicID string) (topicdomain.Topic, error) {
	topic, ok := c[topicID]
	if !ok {
		return topicdomain.Topic{}, fmt.Errorf("%w: topic %s missing from catalog", apperrors.ErrNotFound, topicID)
	}
	return topic, nil
}
