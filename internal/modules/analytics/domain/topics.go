package domain

import (
	"sort"

	reviewdomain "spacedrep/internal/modules/review/domain"
	topicdomain "spacedrep/internal/modules/topic/domain"
)

type TopicStats struct {
	TotalTopics              int
	InactiveTopics           int
	TopicsByCategory         map[string]int
	TopicsByDifficulty       map[string]int
	AverageTopicsPerCategory float64
	MostActiveCategory       string
	NewestTopic              *topicdomain.Topic
	OldestTopic              *topicdomain.Topic
}

// ComputeTopicStats counts active topics; soft-deleted ones only feed
// InactiveTopics.
func ComputeTopicStats(topics []topicdomain.Topic) (TopicStats, error) {
	stats := TopicStats{
		TopicsByCategory:   map[string]int{},
		TopicsByDifficulty: map[string]int{},
	}
	for i := range topics {
		topic := topics[i]
		if err := topic.Validate(); err != nil {
			return TopicStats{}, err
		}
		if !topic.IsActive {
			stats.InactiveTopics++
			continue
		}
		stats.TotalTopics++
		stats.TopicsByCategory[topic.Category]++
		stats.TopicsByDifficulty[topic.DifficultyLevel.String()]++
		if stats.NewestTopic == nil || newer(topic, *stats.NewestTopic) {
			stats.NewestTopic = &topic
		}
		if stats.OldestTopic == nil || newer(*stats.OldestTopic, topic) {
			stats.OldestTopic = &topic
		}
	}
	if len(stats.TopicsByCategory) == 0 {
		return stats, nil
	}
	stats.AverageTopicsPerCategory = float64(stats.TotalTopics) / float64(len(stats.TopicsByCategory))
	names := make([]string, 0, len(stats.TopicsByCategory))
	for name := range stats.TopicsByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if stats.MostActiveCategory == "" || stats.TopicsByCategory[name] > stats.TopicsByCategory[stats.MostActiveCategory] {
			stats.MostActiveCategory = name
		}
	}
	return stats, nil
}

func newer(a, b topicdomain.Topic) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

type LearningStage int

const (
	StageNew LearningStage = iota
	StageLearning
	StageNeedsAttention
	StageMastered
)

var stageNames = [...]string{
	StageNew:            "New",
	StageLearning:       "Learning",
	StageNeedsAttention: "NeedsAttention",
	StageMastered:       "Mastered",
}

func (s LearningStage) String() string {
	if s < StageNew || s > StageMastered {
		return "Unknown"
	}
	return stageNames[s]
}

type TopicProgress struct {
	Topic       topicdomain.Topic
	Stage       LearningStage
	ReviewCount int
	Interval    int
}

// ClassifyTopics tags each topic from the outcome of its latest review. latest is
// keyed by topic id; a topic without an entry is New.
func ClassifyTopics(topics []topicdomain.Topic, latest map[string]reviewdomain.Review) ([]TopicProgress, error) {
	out := make([]TopicProgress, 0, len(topics))
	for _, topic := range topics {
		if err := topic.Validate(); err != nil {
			return nil, err
		}
		review, ok := latest[topic.ID]
		if !ok {
			out = append(out, TopicProgress{Topic: topic, Stage: StageNew})
			continue
		}
		if err := review.Validate(); err != nil {
			return nil, err
		}
		result := reviewdomain.ResultOfReview(review)
		stage := StageLearning
		switch {
		case result.IndicatesMastery():
			stage = StageMastered
		case result.NeedsMoreAttention():
			stage = StageNeedsAttention
		}
		out = append(out, TopicProgress{Topic: topic, Stage: stage, ReviewCount: review.ReviewCount, Interval: review.PreviousInterval})
	}
	return out, nil
}

// StageCounts tallies progress entries per stage name.
func StageCounts(progress []TopicProgress) map[string]int {
	counts := map[string]int{}
	for _, stage := range []LearningStage{StageNew, StageLearning, StageNeedsAttention, StageMastered} {
		counts[stage.String()] = 0
	}
	for _, p := range progress {
		counts[p.Stage.String()]++
	}
	return counts
}
