package dto

import "time"

type StartInput struct {
	Goal string
}

type ProgressInput struct {
	TopicID    string
	Correct    bool
	Confidence float64
}

type EndInput struct {
	SessionID string
	Outcome   string
}

type ListInput struct {
	// Days limits the listing to sessions started in the trailing window; 0 lists all.
	Days int
}

type SessionOutput struct {
	ID                string
	StartTime         time.Time
	EndTime           *time.Time
	Active            bool
	TopicsReviewed    []string
	TotalCorrect      int
	TotalReviewed     int
	AverageConfidence float64
	SuccessRate       float64
	Quality           string
	DurationMinutes   int
	Goal              string
	Outcome           string
}

type EndOutput struct {
	Session SessionOutput
	Path    string
}
