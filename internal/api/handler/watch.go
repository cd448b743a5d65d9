package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bancoimob/gamebank/internal/api/response"
	"github.com/bancoimob/gamebank/internal/model"
)

// keepalivePeriod is the interval between SSE keepalive comments
const keepalivePeriod = 15 * time.Second

// Watch handles GET /api/v1/sessions/{id}/events
//
// Streams the session as server-sent events: the current state on
// connect, then the latest snapshot after every accepted change. A
// client that falls behind receives the newest state rather than a
// backlog of intermediate ones.
func (h *SessionHandler) Watch(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates, err := h.sessions.Watch(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	ticker := time.NewTicker(keepalivePeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := writeSessionEvent(w, snap); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeSessionEvent(w http.ResponseWriter, sess *model.Session) error {
	data, err := json.Marshal(response.SessionFromModel(sess))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: session\ndata: %s\n\n", data)
	return err
}
