package logic

import (
	"context"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// Predictor issues the outbound prediction call
type Predictor interface {
	Predict(ctx context.Context, token string, req models.PredictionRequest) (float64, error)
}

// SessionContext exposes the stored bearer token. An empty token means the
// request is sent without Authorization.
type SessionContext interface {
	BearerToken(ctx context.Context) (string, error)
}

// Notifier raises user-visible toasts
type Notifier interface {
	Notify(toast models.Toast)
}

// HistoryRecorder accepts settled outcomes for persistence. Record must not block.
type HistoryRecorder interface {
	Record(entry models.HistoryEntry) bool
}
