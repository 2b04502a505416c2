package handler

import (
	"fmt"
	"net/http"

	"github.com/osse101/xpscale/internal/curve"
	"github.com/osse101/xpscale/internal/profile"
	"github.com/osse101/xpscale/internal/scaled"
)

// CurveHandler serves level curve lookups
type CurveHandler struct {
	service profile.Service
}

// NewCurveHandler creates a new CurveHandler
func NewCurveHandler(service profile.Service) *CurveHandler {
	return &CurveHandler{service: service}
}

// RequirementResponse is the requirement to reach one level
type RequirementResponse struct {
	Level       int           `json:"level"`
	Requirement scaled.Number `json:"requirement"`
	Display     string        `json:"display"`
}

// HandleGetRequirement returns the requirement of the {level} path parameter
func (h *CurveHandler) HandleGetRequirement(w http.ResponseWriter, r *http.Request) {
	level, ok := GetPathInt(r, w, "level")
	if !ok {
		return
	}

	req, err := h.service.Requirement(level)
	if err != nil {
		respondServiceError(w, r, LogMsgCurveLookupFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, RequirementResponse{
		Level:       level,
		Requirement: req,
		Display:     req.String(),
	})
}

// HandleGetTable returns curve rows for ?from=&to=
func (h *CurveHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	from, ok := GetQueryInt(r, w, "from")
	if !ok {
		return
	}
	to, ok := GetQueryInt(r, w, "to")
	if !ok {
		return
	}
	for name, level := range map[string]int{"from": from, "to": to} {
		if level < 1 || level > curve.MaxLevel {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, name))
			return
		}
	}

	rows, err := h.service.CurveTable(from, to)
	if err != nil {
		respondServiceError(w, r, LogMsgCurveLookupFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows": rows,
	})
}
