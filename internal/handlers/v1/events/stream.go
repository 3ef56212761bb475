// Package events streams rollover recomputation events to clients over
// server-sent events.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/notify"
)

type Handler struct {
	Manager *notify.Manager
}

func NewHandler(manager *notify.Manager) Handler {
	return Handler{Manager: manager}
}

// Handler serves GET /v1/events as an SSE stream. An optional ownerID query
// parameter narrows the stream to one party's events. The stream ends when
// the client disconnects.
func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("events: method not GET")
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return errors.New("events: response writer cannot stream")
	}

	var ownerFilter *uuid.UUID
	if raw := req.URL.Query().Get("ownerID"); raw != "" {
		parsed, err := uuid.FromString(raw)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return fmt.Errorf("events: invalid ownerID: %w", err)
		}
		ownerFilter = &parsed
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	id, ch := h.Manager.Register()
	defer h.Manager.Unregister(id)
	logData.AddData("subscriber", id)

	for {
		select {
		case <-req.Context().Done():
			return nil
		case ev, open := <-ch:
			if !open {
				return nil
			}
			if ownerFilter != nil && ev.OwnerID != *ownerFilter {
				continue
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				return fmt.Errorf("events: marshal event: %w", err)
			}
			if _, err := fmt.Fprintf(w, "event: rollover\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}
