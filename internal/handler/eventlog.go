package handler

import (
	"net/http"

	"github.com/osse101/xpscale/internal/eventlog"
)

// EventLogHandler serves a user's progression audit trail
type EventLogHandler struct {
	service eventlog.Service
}

// NewEventLogHandler creates a new EventLogHandler
func NewEventLogHandler(service eventlog.Service) *EventLogHandler {
	return &EventLogHandler{service: service}
}

// HandleGetUserEvents returns the user's logged events, newest first
func (h *EventLogHandler) HandleGetUserEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}
	limit, ok := GetOptionalQueryInt(r, w, "limit", eventlog.DefaultQueryLimit)
	if !ok {
		return
	}

	events, err := h.service.GetUserEvents(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, LogMsgGetEventsFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"events":  events,
	})
}
