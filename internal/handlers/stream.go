package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pitchside/injury-dashboard/internal/logic"
)

// keepAliveInterval keeps idle SSE connections open through proxies
const keepAliveInterval = 25 * time.Second

// Stream handles GET /api/v1/stream: server-sent gauge frames, toasts and
// state changes for the session's dashboard.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.errorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	sess := sessionFromContext(r.Context())
	d := h.dashboards.Get(sess.ID)

	events, unsubscribe := d.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	state := d.View()
	state.Username = sess.Username
	if err := writeEvent(w, string(logic.EventState), state); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				// Dashboard was torn down; the client reconnects to its replacement.
				return
			}
			if err := writeEvent(w, string(ev.Type), ev.Data); err != nil {
				h.logger.Debugw("SSE write failed", "session", sess.ID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
