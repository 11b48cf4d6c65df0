package handler

import (
	"errors"
	"moodmatch/backend/internal/api/middleware"
	"moodmatch/backend/internal/companion"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type aiMessageRequest struct {
	Message string `json:"message"`
}

// AIChatPage returns what the companion page needs to render.
func (h *Handler) AIChatPage(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.Identity(c)

	label, err := h.currentEmotion(ctx, id.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load emotion"})
		return
	}
	history, err := h.History.Get(ctx, id.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emotion":       label,
		"system_prompt": emotion.SystemPrompt(label),
		"chat_history":  history,
	})
}

// AIChat answers through the configured model and records both turns.
func (h *Handler) AIChat(c *gin.Context) {
	var req aiMessageRequest
	_ = c.ShouldBindJSON(&req)
	text := strings.TrimSpace(req.Message)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	}

	ctx := c.Request.Context()
	id := middleware.Identity(c)

	label, err := h.currentEmotion(ctx, id.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load emotion"})
		return
	}
	history, err := h.History.Get(ctx, id.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}

	reply, err := h.Companion.Reply(ctx, label, history, text)
	if err != nil {
		if errors.Is(err, companion.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI provider not configured"})
			return
		}
		logger.Get().Error().Err(err).Uint("user_id", id.UserID).Msg("companion reply failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service error."})
		return
	}

	if err := h.History.Append(ctx, id.SessionID,
		models.CompanionMessage{Role: models.RoleUser, Content: text},
		models.CompanionMessage{Role: models.RoleAssistant, Content: reply},
	); err != nil {
		logger.Get().Warn().Err(err).Str("session_id", id.SessionID).Msg("failed to store companion history")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "response": reply, "emotion": label})
}

func (h *Handler) AIGetMessages(c *gin.Context) {
	id := middleware.Identity(c)
	history, err := h.History.Get(c.Request.Context(), id.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history})
}

func (h *Handler) AIClear(c *gin.Context) {
	id := middleware.Identity(c)
	if err := h.History.Clear(c.Request.Context(), id.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ChatbotResponse is the scripted companion that needs no AI provider.
func (h *Handler) ChatbotResponse(c *gin.Context) {
	var req aiMessageRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	}

	id := middleware.Identity(c)
	label, err := h.currentEmotion(c.Request.Context(), id.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load emotion"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": h.Bot.Reply(label), "emotion": label})
}
