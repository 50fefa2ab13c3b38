// Package http is the trigger surface of the daemon: a hotkey helper
// (sxhkd, Hammerspoon, a desktop shortcut running curl) POSTs a command
// name here and the active browser tab is rewritten when it applies
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mmuslimabdulj/tabembed/internal/domain"
	"github.com/mmuslimabdulj/tabembed/internal/usecase"
)

type Handler struct {
	modifier *usecase.Modifier
	timeout  time.Duration
}

// NewHandler creates a Handler around the command dispatcher.
// timeout bounds one trigger's tab query plus navigation
func NewHandler(modifier *usecase.Modifier, timeout time.Duration) *Handler {
	return &Handler{
		modifier: modifier,
		timeout:  timeout,
	}
}

// HandleTrigger accepts a command name and dispatches it against the
// active tab. The caller is a hotkey, so failures never surface here:
// unrecognized commands and inapplicable tabs are a 200 no-op
func (h *Handler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	event := domain.NewTriggerEvent(req.Command)

	if event.Command != domain.CommandModifyYouTubeLink {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	// The hotkey does not wait for the browser round trip
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		if err := h.modifier.HandleCommand(ctx, event); err != nil {
			log.WithError(err).WithField("event_id", event.ID).Error("Trigger failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"id":     event.ID.String(),
	})
}

// HandleTransform runs the URL transformer without touching the browser,
// so scripts can use the rewrite logic directly
func (h *Handler) HandleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	target, ok := h.modifier.Transform(req.URL)

	resp := struct {
		URL         string `json:"url,omitempty"`
		Transformed bool   `json:"transformed"`
	}{
		URL:         target,
		Transformed: ok,
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHistory returns recent navigations, oldest first
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records := h.modifier.History()
	if records == nil {
		records = []domain.NavigationRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
