package domain

import (
	"fmt"
	"strings"

	apperrors "spacedrep/internal/platform/errors"
)

// ConfidenceLevel is the learner's self-rated recall for one review.
type ConfidenceLevel int

const (
	ConfidenceUnknown ConfidenceLevel = iota
	Forgot
	Hard
	Good
	Easy
)

var confidenceTable = [...]struct {
	name       string
	multiplier float64
}{
	ConfidenceUnknown: {name: "Unknown", multiplier: 0},
	Forgot:            {name: "Forgot", multiplier: 0.0},
	Hard:              {name: "Hard", multiplier: 0.6},
	Good:              {name: "Good", multiplier: 1.0},
	Easy:              {name: "Easy", multiplier: 2.5},
}

// ConfidenceLevels lists the ratings a learner can give, weakest first.
var ConfidenceLevels = []ConfidenceLevel{Forgot, Hard, Good, Easy}

func (c ConfidenceLevel) IsValid() bool {
	return c >= Forgot && c <= Easy
}

func (c ConfidenceLevel) String() string {
	if c < ConfidenceUnknown || c > Easy {
		return fmt.Sprintf("ConfidenceLevel(%d)", int(c))
	}
	return confidenceTable[c].name
}

// Multiplier scales interval growth; 0 for anything that is not a valid rating.
func (c ConfidenceLevel) Multiplier() float64 {
	if !c.IsValid() {
		return 0
	}
	return confidenceTable[c].multiplier
}

// WasCorrect reports whether the rating counts as recalled.
func (c ConfidenceLevel) WasCorrect() bool {
	return c.IsValid() && c != Forgot
}

func ParseConfidenceLevel(value string) (ConfidenceLevel, error) {
	value = strings.TrimSpace(value)
	for _, level := range ConfidenceLevels {
		if strings.EqualFold(level.String(), value) {
			return level, nil
		}
	}
	return ConfidenceUnknown, fmt.Errorf("%w: unknown confidence level %q", apperrors.ErrInvalidInput, value)
}

func (c ConfidenceLevel) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: confidence level must be valid", apperrors.ErrInvalidInput)
	}
	return []byte(c.String()), nil
}

func (c *ConfidenceLevel) UnmarshalText(text []byte) error {
	level, err := ParseConfidenceLevel(string(text))
	if err != nil {
		return err
	}
	*c = level
	return nil
}
