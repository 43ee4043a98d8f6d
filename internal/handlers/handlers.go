package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pitchside/injury-dashboard/internal/logic"
	"github.com/pitchside/injury-dashboard/internal/models"
	"github.com/pitchside/injury-dashboard/internal/session"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// AuthService is the account side of the prediction service
type AuthService interface {
	Login(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error)
}

// DashboardProvider hands out the live dashboard of a session
type DashboardProvider interface {
	Get(sessionID string) *logic.Dashboard
	Remove(sessionID string)
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

type Config struct {
	Auth         AuthService
	Sessions     session.Store
	Dashboards   DashboardProvider
	Checks       map[string]HealthCheck
	QueueDepth   func() int
	SecureCookie bool
	Logger       *zap.Logger
}

type Handler struct {
	auth         AuthService
	sessions     session.Store
	dashboards   DashboardProvider
	checks       map[string]HealthCheck
	queueDepth   func() int
	secureCookie bool
	logger       *zap.SugaredLogger
	validator    *validator.Validate
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		auth:         cfg.Auth,
		sessions:     cfg.Sessions,
		dashboards:   cfg.Dashboards,
		checks:       cfg.Checks,
		queueDepth:   cfg.QueueDepth,
		secureCookie: cfg.SecureCookie,
		logger:       logger.Sugar(),
		validator:    newValidator(),
	}
}
