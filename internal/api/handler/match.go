package handler

import (
	"moodmatch/backend/internal/api/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MatchStatus reports the caller's active match, if any.
func (h *Handler) MatchStatus(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.Identity(c)

	match, err := h.Matcher.GetActiveMatch(ctx, id.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load match"})
		return
	}
	if match == nil {
		c.JSON(http.StatusOK, gin.H{"matched": false, "message": "No recent match found"})
		return
	}

	view, err := h.Matcher.Describe(ctx, id.UserID, match)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load match"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matched":      true,
		"match_id":     match.ID,
		"matched_user": view.PeerName,
		"emotion":      match.Label,
		"created_at":   match.CreatedAt,
	})
}

// FindMatch routes a matched caller back to their chat, otherwise retries
// matching on the caller's current emotion.
func (h *Handler) FindMatch(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.Identity(c)

	active, err := h.Matcher.GetActiveMatch(ctx, id.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find match"})
		return
	}
	if active != nil {
		c.JSON(http.StatusOK, gin.H{
			"matched":  true,
			"match_id": active.ID,
			"emotion":  active.Label,
			"redirect": chatPath(active.ID),
		})
		return
	}

	latest, err := h.Storage.GetLatestEmotion(ctx, id.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find match"})
		return
	}
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{
			"matched": false,
			"message": "No emotion detected yet. Please detect your emotion first.",
		})
		return
	}

	out, err := h.Matcher.TryMatch(ctx, id.UserID, latest.Label)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find match"})
		return
	}
	if !out.Matched() {
		c.JSON(http.StatusOK, gin.H{"matched": false, "message": "Looking for someone who feels the same..."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matched":  true,
		"match_id": out.Match.ID,
		"emotion":  out.Match.Label,
		"redirect": chatPath(out.Match.ID),
	})
}
