package handlers

import (
	"context"
	"sync/atomic"

	"github.com/pitchside/injury-dashboard/internal/models"
	"github.com/pitchside/injury-dashboard/internal/predictor"
)

// MockAuthService
type MockAuthService struct {
	LoginFunc    func(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error)
	RegisterFunc func(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error)
}

func (m *MockAuthService) Login(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return &models.AuthResponse{Token: "tok-" + creds.Username, Username: creds.Username}, nil
}

func (m *MockAuthService) Register(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, creds)
	}
	return &models.AuthResponse{Message: "User registered successfully"}, nil
}

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
	return 35, nil
}

func serviceError(status int, msg string) error {
	return &predictor.Error{Kind: predictor.KindService, Status: status, Message: msg}
}
