// Package session holds the per-browser authentication state: whether the
// user logged in and the bearer token issued by the prediction service.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the session ID
const CookieName = "injury_dashboard_session"

var ErrSessionNotFound = errors.New("session not found")

// Session is the persisted auth state of one browser
type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	Token         string    `json:"token,omitempty"`
	Username      string    `json:"username,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// New creates an unauthenticated session with a fresh ID
func New() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
}

// SignIn records a successful login. Claims from the token fill in the
// username and expiry when the service did not echo them.
func (s *Session) SignIn(token, username string) {
	s.Authenticated = true
	s.Token = token
	s.Username = username

	if claims, err := InspectToken(token); err == nil {
		if s.Username == "" {
			s.Username = claims.Username
		}
		s.ExpiresAt = claims.ExpiresAt
	}
}

// SignOut clears every auth field but keeps the ID.
func (s *Session) SignOut() {
	s.Authenticated = false
	s.Token = ""
	s.Username = ""
	s.ExpiresAt = time.Time{}
}

// Expired reports whether the stored token is past its exp claim
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Store persists sessions by ID
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Binding ties one session ID to a store. It is the session context handed
// to the prediction orchestrator; values are read on every call.
type Binding struct {
	Store Store
	ID    string
}

// BearerToken returns the stored token, or "" when the session is missing,
// signed out or expired.
func (b Binding) BearerToken(ctx context.Context) (string, error) {
	s, err := b.Store.Get(ctx, b.ID)
	if errors.Is(err, ErrSessionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !s.Authenticated || s.Expired(time.Now()) {
		return "", nil
	}
	return s.Token, nil
}

// Authenticated reports the stored auth flag
func (b Binding) Authenticated(ctx context.Context) bool {
	s, err := b.Store.Get(ctx, b.ID)
	if err != nil {
		return false
	}
	return s.Authenticated && !s.Expired(time.Now())
}
