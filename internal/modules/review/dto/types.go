package dto

import "time"

type RateInput struct {
	TopicID    string
	Confidence string
}

type CorrectInput struct {
	ReviewID   string
	Confidence string
}

type ReviewOutput struct {
	ID             string
	TopicID        string
	ReviewedAt     time.Time
	Confidence     string
	IntervalDays   int
	NextReviewDate time.Time
	EaseFactor     float64
	ReviewCount    int
}

type RateOutput struct {
	Review             ReviewOutput
	WasCorrect         bool
	IndicatesMastery   bool
	NeedsMoreAttention bool
	SessionRecorded    bool
}

type OverdueOutput struct {
	Review      ReviewOutput
	TopicName   string
	DaysOverdue int
	Urgency     string
}

type ScheduleOutput struct {
	TopicID         string
	TopicName       string
	Reviewed        bool
	Latest          ReviewOutput
	Due             bool
	DaysOverdue     int
	Urgency         string
	FSRSDue         time.Time
	HasFSRSForecast bool
}
