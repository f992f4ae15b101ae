package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "spacedrep/internal/platform/errors"
)

// DifficultyLevel grades how demanding a topic is. Undefined exists only as the
// zero value and is rejected by Topic.Validate.
type DifficultyLevel int

const (
	DifficultyUndefined DifficultyLevel = iota
	DifficultyBeginner
	DifficultyIntermediate
	DifficultyAdvanced
)

var difficultyTable = [...]struct {
	name      string
	baseScore int
}{
	DifficultyUndefined:    {name: "Undefined", baseScore: 0},
	DifficultyBeginner:     {name: "Beginner", baseScore: 10},
	DifficultyIntermediate: {name: "Intermediate", baseScore: 20},
	DifficultyAdvanced:     {name: "Advanced", baseScore: 30},
}

// DifficultyLevels lists the defined levels in ascending order.
var DifficultyLevels = []DifficultyLevel{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

func (d DifficultyLevel) valid() bool {
	return d >= DifficultyUndefined && d <= DifficultyAdvanced
}

func (d DifficultyLevel) String() string {
	if !d.valid() {
		return fmt.Sprintf("DifficultyLevel(%d)", int(d))
	}
	return difficultyTable[d].name
}

func (d DifficultyLevel) BaseScore() int {
	if !d.valid() {
		return 0
	}
	return difficultyTable[d].baseScore
}

func (d DifficultyLevel) IsDefined() bool {
	return d >= DifficultyBeginner && d <= DifficultyAdvanced
}

// ParseDifficultyLevel matches a level name case-insensitively.
func ParseDifficultyLevel(value string) (DifficultyLevel, error) {
	value = strings.TrimSpace(value)
	for _, level := range DifficultyLevels {
		if strings.EqualFold(level.String(), value) {
			return level, nil
		}
	}
	return DifficultyUndefined, fmt.Errorf("%w: unknown difficulty level %q", apperrors.ErrInvalidInput, value)
}

func (d DifficultyLevel) MarshalText() ([]byte, error) {
	if !d.IsDefined() {
		return nil, fmt.Errorf("%w: difficulty level must be defined", apperrors.ErrInvalidInput)
	}
	return []byte(d.String()), nil
}

func (d *DifficultyLevel) UnmarshalText(text []byte) error {
	level, err := ParseDifficultyLevel(string(text))
	if err != nil {
		return err
	}
	*d = level
	return nil
}

type Topic struct {
	ID              string
	Name            string
	Category        string
	DifficultyLevel DifficultyLevel
	Notes           string
	Tags            []string
	CreatedAt       time.Time
	IsActive        bool
}

// NewTopic normalises user input into an active topic and validates it.
func NewTopic(id, name, category string, level DifficultyLevel, notes string, tags []string, createdAt time.Time) (Topic, error) {
	topic := Topic{
		ID:              strings.TrimSpace(id),
		Name:            strings.TrimSpace(name),
		Category:        strings.TrimSpace(category),
		DifficultyLevel: level,
		Notes:           notes,
		Tags:            trimAll(tags),
		CreatedAt:       createdAt,
		IsActive:        true,
	}
	if err := topic.Validate(); err != nil {
		return Topic{}, err
	}
	return topic, nil
}

func (t Topic) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: topic id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: topic name cannot be blank", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category cannot be blank", apperrors.ErrInvalidInput)
	}
	if !t.DifficultyLevel.IsDefined() {
		return fmt.Errorf("%w: difficulty level must be defined", apperrors.ErrInvalidInput)
	}
	for _, tag := range t.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: tags cannot contain blank values", apperrors.ErrInvalidInput)
		}
	}
	return nil
}

// ComplexityScore weights a topic for scheduling: the difficulty base score plus
// two points per tag.
func (t Topic) ComplexityScore() int {
	return t.DifficultyLevel.BaseScore() + 2*len(t.Tags)
}

// IsUrgentForInterview reports whether the topic should be studied now given the
// days left before an interview. Harder topics need a longer runway.
func (t Topic) IsUrgentForInterview(daysUntilInterview int) bool {
	switch t.DifficultyLevel {
	case DifficultyBeginner:
		return daysUntilInterview <= 3
	case DifficultyIntermediate:
		return daysUntilInterview <= 7
	case DifficultyAdvanced:
		return daysUntilInterview <= 14
	default:
		return true
	}
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
