package handlers

import (
	"errors"
	"net/http"

	"github.com/pitchside/injury-dashboard/internal/models"
	"github.com/pitchside/injury-dashboard/internal/predictor"
)

// Login handles POST /api/v1/auth/login
// @Summary Log in through the prediction service
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.CredentialsRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.CredentialsRequest
	if !h.decodeJSON(w, r, &creds) {
		return
	}
	if err := h.validator.Struct(&creds); err != nil {
		h.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	resp, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		h.logger.Infow("Login failed", "username", creds.Username, "error", err)
		h.errorResponse(w, upstreamStatus(err), predictor.UserMessage(err, predictor.DefaultLoginMessage))
		return
	}

	sess := sessionFromContext(r.Context())
	username := resp.Username
	if username == "" {
		username = creds.Username
	}
	sess.SignIn(resp.Token, username)
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.logger.Errorw("Failed to save session after login", "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "Session store unavailable")
		return
	}

	h.logger.Infow("User logged in", "username", sess.Username, "session", sess.ID)
	h.jsonResponse(w, http.StatusOK, models.AuthResponse{Username: sess.Username, Message: "Login successful"})
}

// Register handles POST /api/v1/auth/register
// @Summary Create an account on the prediction service
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.CredentialsRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var creds models.CredentialsRequest
	if !h.decodeJSON(w, r, &creds) {
		return
	}
	if err := h.validator.Struct(&creds); err != nil {
		h.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	resp, err := h.auth.Register(r.Context(), creds)
	if err != nil {
		h.errorResponse(w, upstreamStatus(err), predictor.UserMessage(err, predictor.DefaultRegisterMessage))
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// Logout handles POST /api/v1/auth/logout. The session's dashboard is torn
// down along with its gauge and toasts.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.SignOut()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.logger.Errorw("Failed to save session after logout", "error", err)
	}
	h.dashboards.Remove(sess.ID)

	h.jsonResponse(w, http.StatusOK, models.Toast{
		Title:       "Logged out",
		Description: "You have been successfully logged out.",
		Variant:     models.ToastDefault,
	})
}

// upstreamStatus maps a predictor error to the status returned to the browser
func upstreamStatus(err error) int {
	var perr *predictor.Error
	switch {
	case !errors.As(err, &perr):
		return http.StatusBadGateway
	case perr.Kind == predictor.KindTransport:
		return http.StatusBadGateway
	case perr.Status >= 400 && perr.Status < 500:
		return perr.Status
	}
	return http.StatusBadGateway
}
