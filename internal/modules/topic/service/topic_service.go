package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"spacedrep/internal/modules/topic/domain"
	topicout "spacedrep/internal/modules/topic/port/out"
	"spacedrep/internal/platform/clock"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/id"
	"spacedrep/internal/platform/logger"
)

type TopicService struct {
	clock clock.Clock
	idGen id.Generator
	store topicout.TopicStore
	log   *logger.Logger
}

func NewTopicService(clock clock.Clock, idGen id.Generator, store topicout.TopicStore, log *logger.Logger) *TopicService {
	if log == nil {
		log = logger.NewNop()
	}
	return &TopicService{clock: clock, idGen: idGen, store: store, log: log.With("service", "TopicService")}
}

// TopicDraft is the user-supplied part of a new topic.
type TopicDraft struct {
	Name       string
	Category   string
	Difficulty string
	Notes      string
	Tags       []string
}

// TopicPatch carries optional edits; nil fields are left unchanged.
type TopicPatch struct {
	Name       *string
	Category   *string
	Difficulty *string
	Notes      *string
	Tags       *[]string
}

func (s *TopicService) build(draft TopicDraft) (domain.Topic, error) {
	level, err := domain.ParseDifficultyLevel(draft.Difficulty)
	if err != nil {
		return domain.Topic{}, err
	}
	return domain.NewTopic(s.idGen.New(), draft.Name, draft.Category, level, draft.Notes, draft.Tags, s.clock.Now())
}

func (s *TopicService) Add(ctx context.Context, draft TopicDraft) (domain.Topic, error) {
	topic, err := s.build(draft)
	if err != nil {
		return domain.Topic{}, err
	}
	saved, err := s.store.Add(ctx, topic)
	if err != nil {
		return domain.Topic{}, err
	}
	s.log.Info("topic added", "topic_id", saved.ID, "category", saved.Category)
	return saved, nil
}

// AddBatch validates every draft before persisting any of them.
func (s *TopicService) AddBatch(ctx context.Context, drafts []TopicDraft) ([]domain.Topic, error) {
	topics := make([]domain.Topic, 0, len(drafts))
	for i, draft := range drafts {
		topic, err := s.build(draft)
		if err != nil {
			return nil, fmt.Errorf("topic %d: %w", i+1, err)
		}
		topics = append(topics, topic)
	}
	saved, err := s.store.AddBatch(ctx, topics)
	if err != nil {
		return nil, err
	}
	s.log.Info("topics imported", "count", len(saved))
	return saved, nil
}

// TopicEdit pairs a topic id with the patch to apply to it.
type TopicEdit struct {
	ID    string
	Patch TopicPatch
}

func (s *TopicService) Edit(ctx context.Context, topicID string, patch TopicPatch) (domain.Topic, error) {
	topic, err := s.patched(ctx, topicID, patch)
	if err != nil {
		return domain.Topic{}, err
	}
	return s.store.Update(ctx, topic)
}

// EditBatch applies every patch in one transaction; any invalid patch or unknown
// id leaves all topics unchanged.
func (s *TopicService) EditBatch(ctx context.Context, edits []TopicEdit) ([]domain.Topic, error) {
	topics := make([]domain.Topic, 0, len(edits))
	for i, edit := range edits {
		topic, err := s.patched(ctx, edit.ID, edit.Patch)
		if err != nil {
			return nil, fmt.Errorf("edit %d: %w", i+1, err)
		}
		topics = append(topics, topic)
	}
	saved, err := s.store.UpdateBatch(ctx, topics)
	if err != nil {
		return nil, err
	}
	s.log.Info("topics updated", "count", len(saved))
	return saved, nil
}

// RenameCategory moves every active topic of one category to another.
func (s *TopicService) RenameCategory(ctx context.Context, from, to string) ([]domain.Topic, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: both categories are required", apperrors.ErrInvalidInput)
	}
	topics, err := s.store.ListByCategory(ctx, from)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, from)
	}
	edits := make([]TopicEdit, 0, len(topics))
	for _, topic := range topics {
		edits = append(edits, TopicEdit{ID: topic.ID, Patch: TopicPatch{Category: &to}})
	}
	return s.EditBatch(ctx, edits)
}

func (s *TopicService) patched(ctx context.Context, topicID string, patch TopicPatch) (domain.Topic, error) {
	topic, err := s.store.Get(ctx, topicID)
	if err != nil {
		return domain.Topic{}, err
	}
	if patch.Name != nil {
		topic.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		topic.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Difficulty != nil {
		level, err := domain.ParseDifficultyLevel(*patch.Difficulty)
		if err != nil {
			return domain.Topic{}, err
		}
		topic.DifficultyLevel = level
	}
	if patch.Notes != nil {
		topic.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		tags := make([]string, 0, len(*patch.Tags))
		for _, tag := range *patch.Tags {
			tags = append(tags, strings.TrimSpace(tag))
		}
		topic.Tags = tags
	}
	if err := topic.Validate(); err != nil {
		return domain.Topic{}, err
	}
	return topic, nil
}

func (s *TopicService) Delete(ctx context.Context, topicID string) error {
	if strings.TrimSpace(topicID) == "" {
		return fmt.Errorf("%w: topic id is required", apperrors.ErrInvalidInput)
	}
	if err := s.store.SoftDelete(ctx, topicID); err != nil {
		return err
	}
	s.log.Info("topic deactivated", "topic_id", topicID)
	return nil
}

func (s *TopicService) Get(ctx context.Context, topicID string) (domain.Topic, error) {
	return s.store.Get(ctx, topicID)
}

func (s *TopicService) List(ctx context.Context, category string) ([]domain.Topic, error) {
	if strings.TrimSpace(category) != "" {
		return s.store.ListByCategory(ctx, strings.TrimSpace(category))
	}
	return s.store.ListActive(ctx)
}

func (s *TopicService) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

func (s *TopicService) Search(ctx context.Context, query string) ([]domain.Topic, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrInvalidInput)
	}
	return s.store.Search(ctx, strings.TrimSpace(query))
}

// UrgentForInterview returns active topics that need study before an interview
// daysUntilInterview away, hardest first.
func (s *TopicService) UrgentForInterview(ctx context.Context, daysUntilInterview int) ([]domain.Topic, error) {
	if daysUntilInterview < 0 {
		return nil, fmt.Errorf("%w: days until interview must be non-negative", apperrors.ErrInvalidInput)
	}
	topics, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Topic, 0, len(topics))
	for _, topic := range topics {
		if topic.IsUrgentForInterview(daysUntilInterview) {
			out = append(out, topic)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ComplexityScore() > out[j].ComplexityScore()
	})
	return out, nil
}

func (s *TopicService) Due(ctx context.Context) ([]domain.Topic, error) {
	return s.store.ListDueForReview(ctx, s.clock.Now())
}

func (s *TopicService) Watch(ctx context.Context, category string, dueOnly bool) (<-chan []domain.Topic, error) {
	switch {
	case dueOnly:
		return s.store.SubscribeDueForReview(ctx, s.now())
	case strings.TrimSpace(category) != "":
		return s.store.SubscribeByCategory(ctx, strings.TrimSpace(category))
	default:
		return s.store.SubscribeActive(ctx)
	}
}

func (s *TopicService) now() time.Time {
	return s.clock.Now()
}
