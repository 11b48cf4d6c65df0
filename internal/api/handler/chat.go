package handler

import (
	"errors"
	"moodmatch/backend/internal/api/middleware"
	"moodmatch/backend/internal/chathub"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	MatchID uint   `json:"match_id"`
	Message string `json:"message"`
}

// ChatView returns the match header shown above a transcript.
func (h *Handler) ChatView(c *gin.Context) {
	matchID, ok := matchIDParam(c)
	if !ok {
		return
	}
	id := middleware.Identity(c)

	view, err := h.Hub.OpenChat(c.Request.Context(), id.UserID, matchID)
	if err != nil {
		h.chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"match_id":     view.Match.ID,
		"emotion":      view.Match.Label,
		"matched_user": view.PeerName,
		"created_at":   view.Match.CreatedAt,
	})
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	}
	if req.MatchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No match_id provided"})
		return
	}

	id := middleware.Identity(c)
	if _, err := h.Hub.SendMessage(c.Request.Context(), id.UserID, req.MatchID, text); err != nil {
		h.chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMessages returns the transcript for polling clients.
func (h *Handler) GetMessages(c *gin.Context) {
	matchID, ok := matchIDParam(c)
	if !ok {
		return
	}
	id := middleware.Identity(c)

	msgs, err := h.Hub.ListMessages(c.Request.Context(), id.UserID, matchID)
	if err != nil {
		h.chatError(c, err)
		return
	}

	out := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, gin.H{
			"id":         m.ID,
			"sender_id":  m.SenderID,
			"message":    m.Message,
			"created_at": m.CreatedAt,
			"is_me":      m.SenderID == id.UserID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

func (h *Handler) EndChat(c *gin.Context) {
	matchID, ok := matchIDParam(c)
	if !ok {
		return
	}
	id := middleware.Identity(c)

	if err := h.Hub.EndChat(c.Request.Context(), id.UserID, matchID); err != nil {
		h.chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": dashboardPath})
}

func (h *Handler) chatError(c *gin.Context, err error) {
	if errors.Is(err, chathub.ErrForbidden) {
		forbidden(c)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat operation failed"})
}
