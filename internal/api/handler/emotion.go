package handler

import (
	"errors"
	"math"
	"moodmatch/backend/internal/api/middleware"
	"moodmatch/backend/internal/chathub"
	"moodmatch/backend/internal/classifier"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const waitingMessage = "Waiting for someone with similar emotion..."

type manualSaveRequest struct {
	Emotion   string `json:"emotion"`
	Intensity *int   `json:"intensity"`
}

type detectRequest struct {
	Image string `json:"image"`
}

// ManualSave records a self-reported emotion and tries to match right away.
func (h *Handler) ManualSave(c *gin.Context) {
	var req manualSaveRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.Emotion) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No emotion selected"})
		return
	}
	intensity := config.DefaultIntensity
	if req.Intensity != nil {
		intensity = *req.Intensity
	}

	id := middleware.Identity(c)
	res, err := h.Ingest.RecordManual(c.Request.Context(), id.UserID, req.Emotion, intensity)
	switch {
	case errors.Is(err, emotion.ErrUnknownLabel):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown emotion"})
		return
	case errors.Is(err, chathub.ErrInvalidIntensity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Intensity must be between 1 and 3"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save emotion"})
		return
	}

	resp := gin.H{
		"success": true,
		"message": "Emotion saved!",
		"matched": res.Outcome.Matched(),
		"emotion": res.Record.Label,
	}
	if res.Outcome.Matched() {
		resp["matched_user"] = res.Outcome.PeerName
		resp["match_id"] = res.Outcome.Match.ID
	} else {
		resp["message_match"] = waitingMessage
	}
	c.JSON(http.StatusOK, resp)
}

// Detect classifies a webcam frame, records the result and tries to match.
func (h *Handler) Detect(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Image) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image received"})
		return
	}
	image, err := classifier.DecodeImage(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image"})
		return
	}

	ctx := c.Request.Context()
	id := middleware.Identity(c)

	pred, err := h.Classifier.Classify(ctx, image)
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Model not loaded"})
			return
		}
		logger.Get().Error().Err(err).Uint("user_id", id.UserID).Msg("detection failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Detection failed"})
		return
	}

	res, err := h.Ingest.RecordDetected(ctx, id.UserID, chathub.Detection{
		Label:       pred.Label,
		Probability: pred.Probability,
		Scores:      pred.Scores,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Detection failed"})
		return
	}

	resp := gin.H{
		"emotion":    pred.Label,
		"confidence": math.Round(res.Record.Confidence*100) / 100,
		"message":    emotion.SupportMessage(pred.Label),
		"matched":    res.Outcome.Matched(),
	}
	if res.Outcome.Matched() {
		resp["matched_user"] = res.Outcome.PeerName
		resp["match_emotion"] = res.Outcome.Match.Label
		resp["match_id"] = res.Outcome.Match.ID
	} else {
		resp["message_match"] = waitingMessage
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard lists the caller's emotion history, newest first.
func (h *Handler) Dashboard(c *gin.Context) {
	id := middleware.Identity(c)
	recs, err := h.Storage.ListEmotions(c.Request.Context(), id.UserID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load emotions"})
		return
	}

	out := make([]gin.H, 0, len(recs))
	for _, r := range recs {
		out = append(out, gin.H{
			"emotion":    r.Label,
			"confidence": r.Confidence,
			"source":     r.Source,
			"created_at": r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"username": id.Name, "emotions": out})
}
