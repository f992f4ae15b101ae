package dto

import "time"

type AddTopicInput struct {
	Name       string
	Category   string
	Difficulty string
	Notes      string
	Tags       []string
}

// EditTopicInput applies only the non-nil fields.
type EditTopicInput struct {
	ID         string
	Name       *string
	Category   *string
	Difficulty *string
	Notes      *string
	Tags       *[]string
}

type RenameCategoryInput struct {
	From string
	To   string
}

type ListTopicsInput struct {
	Category string
}

type WatchTopicsInput struct {
	Category string
	DueOnly  bool
}

type TopicOutput struct {
	ID              string
	Name            string
	Category        string
	Difficulty      string
	Notes           string
	Tags            []string
	CreatedAt       time.Time
	IsActive        bool
	ComplexityScore int
}
