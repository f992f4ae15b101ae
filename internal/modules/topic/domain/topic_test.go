package domain_test

import (
	"errors"
	"testing"
	"time"

	"spacedrep/internal/modules/topic/domain"
	apperrors "spacedrep/internal/platform/errors"
)

func TestParseDifficultyLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.DifficultyLevel{
		"beginner":     domain.DifficultyBeginner,
		"INTERMEDIATE": domain.DifficultyIntermediate,
		" Advanced ":   domain.DifficultyAdvanced,
	}
	for input, want := range cases {
		got, err := domain.ParseDifficultyLevel(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %s want %s", input, got, want)
		}
	}
	for _, bad := range []string{"", "undefined", "expert"} {
		if _, err := domain.ParseDifficultyLevel(bad); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("parse %q should fail with invalid input, got %v", bad, err)
		}
	}
}

func TestNewTopicValidation(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	topic, err := domain.NewTopic("t-1", "  Binary Search ", " Algorithms ", domain.DifficultyBeginner, "", []string{" arrays "}, now)
	if err != nil {
		t.Fatalf("new topic: %v", err)
	}
	if topic.Name != "Binary Search" || topic.Category != "Algorithms" || topic.Tags[0] != "arrays" || !topic.IsActive {
		t.Fatalf("topic not normalised: %+v", topic)
	}

	invalid := []struct {
		name     string
		id       string
		topic    string
		category string
		level    domain.DifficultyLevel
		tags     []string
	}{
		{"missing id", "", "Name", "Cat", domain.DifficultyBeginner, nil},
		{"blank name", "t", "  ", "Cat", domain.DifficultyBeginner, nil},
		{"blank category", "t", "Name", "", domain.DifficultyBeginner, nil},
		{"undefined difficulty", "t", "Name", "Cat", domain.DifficultyUndefined, nil},
		{"blank tag", "t", "Name", "Cat", domain.DifficultyAdvanced, []string{"ok", " "}},
	}
	for _, tc := range invalid {
		if _, err := domain.NewTopic(tc.id, tc.topic, tc.category, tc.level, "", tc.tags, now); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.name, err)
		}
	}
}

func TestComplexityAndInterviewUrgency(t *testing.T) {
	t.Parallel()
	topic := domain.Topic{DifficultyLevel: domain.DifficultyIntermediate, Tags: []string{"a", "b", "c"}}
	if got := topic.ComplexityScore(); got != 26 {
		t.Fatalf("expected complexity 26, got %d", got)
	}
	if !topic.IsUrgentForInterview(7) || topic.IsUrgentForInterview(8) {
		t.Fatalf("intermediate topics become urgent at 7 days")
	}
	advanced := domain.Topic{DifficultyLevel: domain.DifficultyAdvanced}
	if !advanced.IsUrgentForInterview(14) || advanced.IsUrgentForInterview(15) {
		t.Fatalf("advanced topics become urgent at 14 days")
	}
	beginner := domain.Topic{DifficultyLevel: domain.DifficultyBeginner}
	if beginner.IsUrgentForInterview(4) {
		t.Fatalf("beginner topic should not be urgent 4 days out")
	}
}

func TestDifficultyTextEncoding(t *testing.T) {
	t.Parallel()
	var level domain.DifficultyLevel
	if err := level.UnmarshalText([]byte("advanced")); err != nil || level != domain.DifficultyAdvanced {
		t.Fatalf("unmarshal: %v %s", err, level)
	}
	if _, err := domain.DifficultyUndefined.MarshalText(); err == nil {
		t.Fatalf("undefined level must not marshal")
	}
	if domain.DifficultyLevel(9).String() != "DifficultyLevel(9)" {
		t.Fatalf("unexpected string for out of range level")
	}
}
