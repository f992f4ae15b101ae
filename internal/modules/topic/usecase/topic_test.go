package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"spacedrep/internal/modules/topic/domain"
	"spacedrep/internal/modules/topic/dto"
	topicin "spacedrep/internal/modules/topic/port/in"
	"spacedrep/internal/modules/topic/service"
	"spacedrep/internal/modules/topic/usecase"
	"spacedrep/internal/platform/clock"
	apperrors "spacedrep/internal/platform/errors"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("topic-%d", s.n)
}

type memoryStore struct {
	topics map[string]domain.Topic
	due    []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{topics: map[string]domain.Topic{}}
}

func (m *memoryStore) sorted(keep func(domain.Topic) bool) []domain.Topic {
	out := []domain.Topic{}
	for _, topic := range m.topics {
		if keep(topic) {
			out = append(out, topic)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memoryStore) stream(topics []domain.Topic) <-chan []domain.Topic {
	ch := make(chan []domain.Topic, 1)
	ch <- topics
	close(ch)
	return ch
}

func (m *memoryStore) SubscribeActive(context.Context) (<-chan []domain.Topic, error) {
	topics, _ := m.ListActive(context.Background())
	return m.stream(topics), nil
}
func (m *memoryStore) SubscribeByCategory(ctx context.Context, category string) (<-chan []domain.Topic, error) {
	topics, _ := m.ListByCategory(ctx, category)
	return m.stream(topics), nil
}
func (m *memoryStore) SubscribeDueForReview(ctx context.Context, now time.Time) (<-chan []domain.Topic, error) {
	topics, _ := m.ListDueForReview(ctx, now)
	return m.stream(topics), nil
}
func (m *memoryStore) Get(_ context.Context, id string) (domain.Topic, error) {
	topic, ok := m.topics[id]
	if !ok {
		return domain.Topic{}, apperrors.ErrNotFound
	}
	return topic, nil
}
func (m *memoryStore) ListActive(context.Context) ([]domain.Topic, error) {
	return m.sorted(func(t domain.Topic) bool { return t.IsActive }), nil
}
func (m *memoryStore) ListByCategory(_ context.Context, category string) ([]domain.Topic, error) {
	return m.sorted(func(t domain.Topic) bool { return t.IsActive && t.Category == category }), nil
}
func (m *memoryStore) ListDueForReview(context.Context, time.Time) ([]domain.Topic, error) {
	out := []domain.Topic{}
	for _, id := range m.due {
		out = append(out, m.topics[id])
	}
	return out, nil
}
func (m *memoryStore) Categories(context.Context) ([]string, error) { return []string{"Go"}, nil }
func (m *memoryStore) Search(context.Context, string) ([]domain.Topic, error) {
	return m.ListActive(context.Background())
}
func (m *memoryStore) Add(_ context.Context, topic domain.Topic) (domain.Topic, error) {
	m.topics[topic.ID] = topic
	return topic, nil
}
func (m *memoryStore) AddBatch(ctx context.Context, topics []domain.Topic) ([]domain.Topic, error) {
	for _, topic := range topics {
		m.topics[topic.ID] = topic
	}
	return topics, nil
}
func (m *memoryStore) Update(_ context.Context, topic domain.Topic) (domain.Topic, error) {
	m.topics[topic.ID] = topic
	return topic, nil
}
func (m *memoryStore) UpdateBatch(_ context.Context, topics []domain.Topic) ([]domain.Topic, error) {
	for _, topic := range topics {
		if _, ok := m.topics[topic.ID]; !ok {
			return nil, apperrors.ErrNotFound
		}
	}
	for _, topic := range topics {
		m.topics[topic.ID] = topic
	}
	return topics, nil
}
func (m *memoryStore) SoftDelete(_ context.Context, id string) error {
	topic, ok := m.topics[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	topic.IsActive = false
	m.topics[id] = topic
	return nil
}

func setup() (*memoryStore, topicin.Usecase) {
	store := newMemoryStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := service.NewTopicService(clock.Fixed(now), &seqID{}, store, nil)
	return store, usecase.NewInteractor(svc)
}

func TestAddTopicNormalisesAndScores(t *testing.T) {
	t.Parallel()
	_, uc := setup()
	out, err := uc.Add(context.Background(), dto.AddTopicInput{
		Name:       "  Goroutine leaks ",
		Category:   " Go ",
		Difficulty: "advanced",
		Tags:       []string{"runtime", " pprof "},
	})
	if err != nil {
		t.Fatalf("add topic: %v", err)
	}
	if out.ID != "topic-1" || out.Name != "Goroutine leaks" || out.Category != "Go" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Difficulty != "Advanced" || out.ComplexityScore != 34 {
		t.Fatalf("unexpected difficulty/score: %s %d", out.Difficulty, out.ComplexityScore)
	}
	if out.Tags[1] != "pprof" || !out.IsActive {
		t.Fatalf("unexpected tags/active: %+v", out)
	}
}

func TestAddTopicRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	_, uc := setup()
	cases := []dto.AddTopicInput{
		{Name: "", Category: "Go", Difficulty: "Beginner"},
		{Name: "x", Category: " ", Difficulty: "Beginner"},
		{Name: "x", Category: "Go", Difficulty: "expert"},
		{Name: "x", Category: "Go", Difficulty: "Undefined"},
		{Name: "x", Category: "Go", Difficulty: "Beginner", Tags: []string{"ok", " "}},
	}
	for _, input := range cases {
		if _, err := uc.Add(context.Background(), input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", input, err)
		}
	}
}

func TestImportValidatesEveryTopicBeforeStoring(t *testing.T) {
	t.Parallel()
	store, uc := setup()
	_, err := uc.Import(context.Background(), []dto.AddTopicInput{
		{Name: "Maps", Category: "Go", Difficulty: "Beginner"},
		{Name: "Bad", Category: "Go", Difficulty: "nope"},
	})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(store.topics) != 0 {
		t.Fatalf("nothing must be stored when one topic is invalid")
	}
}

func TestEditAppliesOnlyProvidedFields(t *testing.T) {
	t.Parallel()
	_, uc := setup()
	ctx := context.Background()
	added, err := uc.Add(ctx, dto.AddTopicInput{Name: "Slices", Category: "Go", Difficulty: "Beginner", Notes: "keep"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	level := "Intermediate"
	edited, err := uc.Edit(ctx, dto.EditTopicInput{ID: added.ID, Difficulty: &level})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Difficulty != "Intermediate" || edited.Notes != "keep" || edited.Name != "Slices" {
		t.Fatalf("unexpected edit result: %+v", edited)
	}
	blank := " "
	if _, err := uc.Edit(ctx, dto.EditTopicInput{ID: added.ID, Name: &blank}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected blank name rejection, got %v", err)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	t.Parallel()
	_, uc := setup()
	ctx := context.Background()
	added, err := uc.Add(ctx, dto.AddTopicInput{Name: "Interfaces", Category: "Go", Difficulty: "Beginner"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := uc.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := uc.List(ctx, dto.ListTopicsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deleted topic must not be listed")
	}
	got, err := uc.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("get deleted topic: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected inactive topic")
	}
}

func TestUrgentForInterviewOrdersHardestFirst(t *testing.T) {
	t.Parallel()
	_, uc := setup()
	ctx := context.Background()
	for _, input := range []dto.AddTopicInput{
		{Name: "Easy one", Category: "Go", Difficulty: "Beginner"},
		{Name: "Middle", Category: "Go", Difficulty: "Intermediate"},
		{Name: "Hard", Category: "Go", Difficulty: "Advanced"},
	} {
		if _, err := uc.Add(ctx, input); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	urgent, err := uc.UrgentForInterview(ctx, 7)
	if err != nil {
		t.Fatalf("urgent: %v", err)
	}
	if len(urgent) != 2 || urgent[0].Name != "Hard" || urgent[1].Name != "Middle" {
		t.Fatalf("unexpected urgent topics: %+v", urgent)
	}
	if _, err := uc.UrgentForInterview(ctx, -1); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative days, got %v", err)
	}
}

func TestWatchConvertsSnapshots(t *testing.T) {
	t.Parallel()
	_, uc := setup()
	ctx := context.Background()
	if _, err := uc.Add(ctx, dto.AddTopicInput{Name: "Context", Category: "Go", Difficulty: "Beginner"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	stream, err := uc.Watch(ctx, dto.WatchTopicsInput{Category: "Go"})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	first, ok := <-stream
	if !ok || len(first) != 1 || first[0].Name != "Context" {
		t.Fatalf("unexpected first snapshot: %+v", first)
	}
	if _, ok := <-stream; ok {
		t.Fatalf("stream must close when the source closes")
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	t.Parallel()
	_, uc := setup()
	if _, err := uc.Search(context.Background(), "  "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestEditBatchIsAllOrNothing(t *testing.T) {
	t.Parallel()
	store, uc := setup()
	ctx := context.Background()
	imported, err := uc.Import(ctx, []dto.AddTopicInput{
		{Name: "Maps", Category: "Go", Difficulty: "Beginner"},
		{Name: "Slices", Category: "Go", Difficulty: "Beginner"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	hard, bad := "Advanced", "impossible"
	_, err = uc.EditBatch(ctx, []dto.EditTopicInput{
		{ID: imported[0].ID, Difficulty: &hard},
		{ID: imported[1].ID, Difficulty: &bad},
	})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if store.topics[imported[0].ID].DifficultyLevel != domain.DifficultyBeginner {
		t.Fatalf("a failed batch must not apply earlier edits")
	}

	updated, err := uc.EditBatch(ctx, []dto.EditTopicInput{
		{ID: imported[0].ID, Difficulty: &hard},
		{ID: imported[1].ID, Difficulty: &hard},
	})
	if err != nil {
		t.Fatalf("edit batch: %v", err)
	}
	if len(updated) != 2 || updated[1].Difficulty != "Advanced" {
		t.Fatalf("unexpected batch result: %+v", updated)
	}
	if _, err := uc.EditBatch(ctx, []dto.EditTopicInput{{ID: "ghost", Difficulty: &hard}}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unknown topic to fail, got %v", err)
	}
}

func TestRenameCategoryMovesActiveTopics(t *testing.T) {
	t.Parallel()
	store, uc := setup()
	ctx := context.Background()
	if _, err := uc.Import(ctx, []dto.AddTopicInput{
		{Name: "Maps", Category: "Golang", Difficulty: "Beginner"},
		{Name: "Channels", Category: "Golang", Difficulty: "Intermediate"},
		{Name: "Raft", Category: "Distributed", Difficulty: "Advanced"},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}
	moved, err := uc.RenameCategory(ctx, dto.RenameCategoryInput{From: "Golang", To: " Go "})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("expected two topics moved, got %d", len(moved))
	}
	for _, topic := range store.topics {
		if topic.Category == "Golang" {
			t.Fatalf("topic %s still in the old category", topic.Name)
		}
	}
	if store.topics["topic-3"].Category != "Distributed" {
		t.Fatalf("other categories must be untouched")
	}
	if _, err := uc.RenameCategory(ctx, dto.RenameCategoryInput{From: "Golang", To: "Go"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected empty category to be not found, got %v", err)
	}
	if _, err := uc.RenameCategory(ctx, dto.RenameCategoryInput{From: "Go", To: " "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected blank target to fail, got %v", err)
	}
}
