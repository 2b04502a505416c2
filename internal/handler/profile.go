package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/logger"
	"github.com/osse101/xpscale/internal/profile"
	"github.com/osse101/xpscale/internal/reward"
	"github.com/osse101/xpscale/internal/scaled"
)

// MaxSnapshotBytes bounds an imported snapshot document
const MaxSnapshotBytes = 64 << 10

// ProfileHandler serves the progression profile endpoints
type ProfileHandler struct {
	service profile.Service
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service profile.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// AwardRewardRequest is the request body for awarding a boosted reward
type AwardRewardRequest struct {
	BaseAmount *float64  `json:"base_amount" validate:"required,gte=0"`
	Factors    []float64 `json:"factors,omitempty" validate:"omitempty,max=32,dive,gte=0"`
	Source     string    `json:"source,omitempty" validate:"omitempty,max=50"`
}

// ApplyDeltaRequest is the request body for adding raw progress
type ApplyDeltaRequest struct {
	Delta  *scaled.Number `json:"delta" validate:"required"`
	Source string         `json:"source,omitempty" validate:"omitempty,max=50"`
}

// SetBoostLevelRequest is the request body for setting a boost level
type SetBoostLevelRequest struct {
	Level *int `json:"level" validate:"required,gte=0"`
}

// ProgressResponse is a user's position on the curve
type ProgressResponse struct {
	UserID string `json:"user_id"`
	leveling.Progress
	TotalDisplay string `json:"total_display"`
}

// UpdateResponse is the outcome of a reward or delta
type UpdateResponse struct {
	UserID        string        `json:"user_id"`
	PreviousLevel int           `json:"previous_level"`
	Level         int           `json:"level"`
	LevelsCrossed []int         `json:"levels_crossed"`
	Unlisted      int           `json:"unlisted_levels_crossed,omitempty"`
	Total         scaled.Number `json:"total"`
	TotalDisplay  string        `json:"total_display"`
	Award         *reward.Award `json:"award,omitempty"`
	Fraction      float64       `json:"fraction"`
	Negligible    bool          `json:"negligible,omitempty"`
}

func newProgressResponse(userID string, p *leveling.Progress) ProgressResponse {
	return ProgressResponse{
		UserID:       userID,
		Progress:     *p,
		TotalDisplay: p.Total.String(),
	}
}

func newUpdateResponse(res *profile.UpdateResult) UpdateResponse {
	return UpdateResponse{
		UserID:        res.UserID,
		PreviousLevel: res.Previous.Level,
		Level:         res.State.Level,
		LevelsCrossed: res.Crossed,
		Unlisted:      res.Unlisted,
		Total:         res.State.Total,
		TotalDisplay:  res.State.Total.String(),
		Award:         res.Award,
		Fraction:      res.Progress.Fraction,
		Negligible:    res.Negligible,
	}
}

// HandleGetProgress returns a user's level progress
func (h *ProfileHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}

	progress, err := h.service.GetProgress(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, LogMsgGetProgressFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, newProgressResponse(userID, progress))
}

// HandleAwardReward applies a base reward scaled by the user's boosts
func (h *ProfileHandler) HandleAwardReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}

	var req AwardRewardRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Award reward"); err != nil {
		return
	}

	res, err := h.service.AwardReward(r.Context(), userID, profile.RewardRequest{
		BaseAmount: *req.BaseAmount,
		Factors:    req.Factors,
		Source:     req.Source,
	})
	if err != nil {
		respondServiceError(w, r, LogMsgAwardRewardFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, newUpdateResponse(res))
}

// HandleApplyDelta adds raw progress to a user
func (h *ProfileHandler) HandleApplyDelta(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}

	var req ApplyDeltaRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Apply delta"); err != nil {
		return
	}

	res, err := h.service.ApplyDelta(r.Context(), userID, *req.Delta, req.Source)
	if err != nil {
		respondServiceError(w, r, LogMsgApplyDeltaFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, newUpdateResponse(res))
}

// HandleGetLevelUps returns the user's most recent level-ups
func (h *ProfileHandler) HandleGetLevelUps(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}
	limit, ok := GetOptionalQueryInt(r, w, "limit", profile.DefaultLevelUpHistoryLimit)
	if !ok {
		return
	}

	history, err := h.service.GetLevelUps(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, LogMsgGetLevelUpsFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"level_ups": history,
	})
}

// HandleGetBoosts returns the user's boost levels and factors
func (h *ProfileHandler) HandleGetBoosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}

	boosts, err := h.service.GetBoosts(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, LogMsgGetBoostsFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"boosts":  boosts,
	})
}

// HandleSetBoostLevel sets the user's level in one catalog boost
func (h *ProfileHandler) HandleSetBoostLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}
	boostKey := chi.URLParam(r, "boostKey")
	if err := GetValidator().ValidateVar(boostKey, "required,boostkey"); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidPathParam, "boostKey"))
		return
	}

	var req SetBoostLevelRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set boost level"); err != nil {
		return
	}

	if err := h.service.SetBoostLevel(r.Context(), userID, boostKey, *req.Level); err != nil {
		respondServiceError(w, r, LogMsgSetBoostLevelFailed, err)
		return
	}

	logger.FromContext(r.Context()).Info("Boost level set", "user_id", userID, "boost", boostKey, "level", *req.Level)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgBoostLevelUpdated})
}

// HandleImportSnapshot replaces a user's progression with a snapshot
// document of any supported version
func (h *ProfileHandler) HandleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathUserID(r, w)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, MaxSnapshotBytes+1))
	if err != nil || len(raw) > MaxSnapshotBytes || !json.Valid(raw) {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	progress, err := h.service.ImportSnapshot(r.Context(), userID, raw)
	if err != nil {
		respondServiceError(w, r, LogMsgImportSnapshotFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, newProgressResponse(userID, progress))
}
