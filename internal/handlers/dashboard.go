package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pitchside/injury-dashboard/internal/logic"
	"github.com/pitchside/injury-dashboard/internal/models"
)

// Predict handles POST /api/v1/predict
// @Summary Submit a player record for an injury-risk prediction
// @Tags Prediction
// @Accept json
// @Produce json
// @Param body body models.PlayerRecord true "Player record"
// @Success 200 {object} models.DashboardState
// @Failure 409 {object} map[string]string "Prediction already in flight"
// @Failure 422 {object} map[string]string "Invalid record"
// @Router /predict [post]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var record models.PlayerRecord
	if !h.decodeJSON(w, r, &record) {
		return
	}
	if err := h.validator.Struct(&record); err != nil {
		h.errorResponse(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	sess := sessionFromContext(r.Context())
	d := h.dashboards.Get(sess.ID)

	// The cycle outlives the HTTP request; only dashboard teardown cancels it.
	outcome, err := d.Submit(context.WithoutCancel(r.Context()), record)
	switch {
	case errors.Is(err, logic.ErrSubmitInFlight):
		h.errorResponse(w, http.StatusConflict, "A prediction is already in progress")
		return
	case errors.Is(err, logic.ErrDashboardClosed):
		h.errorResponse(w, http.StatusGone, "Dashboard session ended")
		return
	case err != nil:
		h.logger.Errorw("Prediction submit failed", "error", err, "session", sess.ID)
		h.errorResponse(w, http.StatusInternalServerError, "Prediction failed")
		return
	}

	h.logger.Infow("Prediction settled",
		"session", sess.ID,
		"cycle", outcome.CycleID,
		"kind", outcome.Kind,
		"probability", outcome.Probability,
	)

	state := d.View()
	state.Username = sess.Username
	h.jsonResponse(w, http.StatusOK, state)
}

// Reset handles POST /api/v1/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	d := h.dashboards.Get(sess.ID)

	if !d.Reset() {
		h.errorResponse(w, http.StatusConflict, "A prediction is already in progress")
		return
	}
	state := d.View()
	state.Username = sess.Username
	h.jsonResponse(w, http.StatusOK, state)
}

// State handles GET /api/v1/state
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	state := h.dashboards.Get(sess.ID).View()
	state.Username = sess.Username
	h.jsonResponse(w, http.StatusOK, state)
}

// DismissToast handles DELETE /api/v1/toasts/{id}
func (h *Handler) DismissToast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorResponse(w, http.StatusBadRequest, "Toast ID is required")
		return
	}

	sess := sessionFromContext(r.Context())
	if !h.dashboards.Get(sess.ID).DismissToast(id) {
		h.errorResponse(w, http.StatusNotFound, "Toast not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
