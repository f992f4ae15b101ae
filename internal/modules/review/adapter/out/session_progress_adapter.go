package out

import (
	"context"
	"errors"

	reviewout "spacedrep/internal/modules/review/port/out"
	sessiondto "spacedrep/internal/modules/session/dto"
	sessionin "spacedrep/internal/modules/session/port/in"
	apperrors "spacedrep/internal/platform/errors"
)

// SessionProgressAdapter counts ratings toward the active study session. Ratings
// made outside a session are not an error.
type SessionProgressAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionProgressAdapter(sessions sessionin.Usecase) reviewout.SessionProgress {
	return &SessionProgressAdapter{sessions: sessions}
}

func (a *SessionProgressAdapter) Record(ctx context.Context, topicID string, correct bool, confidence float64) (bool, error) {
	_, err := a.sessions.RecordProgress(ctx, sessiondto.ProgressInput{TopicID: topicID, Correct: correct, Confidence: confidence})
	if errors.Is(err, apperrors.ErrNoActiveSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
