package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spacedrep/internal/modules/session/domain"
	sessionout "spacedrep/internal/modules/session/port/out"
	"spacedrep/internal/platform/markdown"
)

// VaultSessionJournal writes one markdown note per finished session under
// <vault>/sessions/YYYY/MM/DD.
type VaultSessionJournal struct {
	vaultPath string
}

func NewVaultSessionJournal(vaultPath string) sessionout.SessionJournal {
	return &VaultSessionJournal{vaultPath: vaultPath}
}

// JournalMeta is the frontmatter of a session note.
type JournalMeta struct {
	SchemaVersion     int      `yaml:"schema_version"`
	ID                string   `yaml:"id"`
	StartedAt         string   `yaml:"started_at"`
	EndedAt           string   `yaml:"ended_at"`
	DurationMinutes   int      `yaml:"duration_minutes"`
	TopicsReviewed    []string `yaml:"topics_reviewed"`
	TotalReviewed     int      `yaml:"total_reviewed"`
	TotalCorrect      int      `yaml:"total_correct"`
	SuccessRate       float64  `yaml:"success_rate"`
	AverageConfidence float64  `yaml:"average_confidence"`
	Quality           string   `yaml:"quality"`
	Goal              string   `yaml:"goal,omitempty"`
	Outcome           string   `yaml:"outcome,omitempty"`
}

func (j *VaultSessionJournal) Save(_ context.Context, session domain.StudySession) (string, error) {
	if !session.IsCompleted() {
		return "", fmt.Errorf("journal session %s: session is still active", session.ID)
	}
	date := session.StartTime
	dir := filepath.Join(j.vaultPath, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", date.Format("150405"), shortID(session.ID)))

	meta := JournalMeta{
		SchemaVersion:     domain.SchemaVersion,
		ID:                session.ID,
		StartedAt:         session.StartTime.Format(time.RFC3339),
		EndedAt:           session.EndTime.Format(time.RFC3339),
		DurationMinutes:   session.DurationMinutes(),
		TopicsReviewed:    session.TopicsReviewed,
		TotalReviewed:     session.TotalReviewed,
		TotalCorrect:      session.TotalCorrect,
		SuccessRate:       session.SuccessRate(),
		AverageConfidence: session.AverageConfidence,
		Quality:           session.Quality().String(),
		Goal:              session.Goal,
		Outcome:           session.Outcome,
	}
	rendered, err := markdown.Render(meta, renderBody(session))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

func renderBody(session domain.StudySession) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "# Study session %s\n\n", session.StartTime.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "- Duration: %d minutes\n", session.DurationMinutes())
	fmt.Fprintf(&b, "- Reviewed: %d (%d correct, %s)\n", session.TotalReviewed, session.TotalCorrect, session.Quality())
	if session.Goal != "" {
		fmt.Fprintf(&b, "\n## Goal\n\n%s\n", session.Goal)
	}
	if session.Outcome != "" {
		fmt.Fprintf(&b, "\n## Outcome\n\n%s\n", session.Outcome)
	}
	if len(session.TopicsReviewed) > 0 {
		b.WriteString("\n## Topics\n\n")
		for _, topicID := range session.TopicsReviewed {
			fmt.Fprintf(&b, "- %s\n", topicID)
		}
	}
	return b.String()
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
