package logic

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// MockPredictor
type MockPredictor struct {
	PredictFunc func(ctx context.Context, token string, req models.PredictionRequest) (float64, error)
	calls       atomic.Int32
}

func (m *MockPredictor) Predict(ctx context.Context, token string, req models.PredictionRequest) (float64, error) {
	m.calls.Add(1)
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, token, req)
	}
	return 0, nil
}

func (m *MockPredictor) Calls() int {
	return int(m.calls.Load())
}

// MockSession
type MockSession struct {
	Token string
	Err   error
}

func (m *MockSession) BearerToken(ctx context.Context) (string, error) {
	return m.Token, m.Err
}

// MockNotifier
type MockNotifier struct {
	mu     sync.Mutex
	Toasts []models.Toast
}

func (m *MockNotifier) Notify(toast models.Toast) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Toasts = append(m.Toasts, toast)
}

func (m *MockNotifier) All() []models.Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Toast(nil), m.Toasts...)
}

// MockHistory
type MockHistory struct {
	mu      sync.Mutex
	Entries []models.HistoryEntry
	Full    bool
}

func (m *MockHistory) Record(entry models.HistoryEntry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Full {
		return false
	}
	m.Entries = append(m.Entries, entry)
	return true
}

func validRecord() models.PlayerRecord {
	return models.PlayerRecord{
		PlayerName:          "Test Player",
		Age:                 "27",
		PlayerRole:          "batsman",
		PlayerType:          "aggressive",
		BMI:                 "23.4",
		MatchesLastWeek:     "2",
		MatchesLastMonth:    "7",
		BallsFacedLastMatch: "120",
		AcuteWorkload:       "410.5",
		ChronicWorkload:     "380",
		InjuriesLast30Days:  "0",
		RestDays:            "3",
		TravelLoad:          "medium",
		MatchFormat:         "t20",
	}
}
