package domain

import "fmt"

type UrgencyLevel int

const (
	UrgencyLow UrgencyLevel = iota + 1
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

var urgencyNames = map[UrgencyLevel]string{
	UrgencyLow:      "Low",
	UrgencyMedium:   "Medium",
	UrgencyHigh:     "High",
	UrgencyCritical: "Critical",
}

func (u UrgencyLevel) String() string {
	if name, ok := urgencyNames[u]; ok {
		return name
	}
	return fmt.Sprintf("UrgencyLevel(%d)", int(u))
}

// Priority is the numeric weight used to sort study queues; higher is sooner.
func (u UrgencyLevel) Priority() int {
	return int(u)
}

// UrgencyForDaysOverdue buckets a non-negative overdue count.
func UrgencyForDaysOverdue(days int) UrgencyLevel {
	switch {
	case days >= 7:
		return UrgencyCritical
	case days >= 3:
		return UrgencyHigh
	case days >= 1:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}
