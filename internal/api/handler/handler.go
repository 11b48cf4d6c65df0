package handler

import (
	"context"
	"moodmatch/backend/internal/api/middleware"
	"moodmatch/backend/internal/auth"
	"moodmatch/backend/internal/chathub"
	"moodmatch/backend/internal/classifier"
	"moodmatch/backend/internal/companion"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/storage"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const dashboardPath = "/dashboard"

// Handler holds the services behind the HTTP routes.
type Handler struct {
	Storage    storage.Storage
	Matcher    *chathub.MatcherService
	Ingest     *chathub.IngestService
	Hub        *chathub.ManagerService
	Auth       *auth.Manager
	Classifier classifier.Classifier
	Companion  *companion.Service
	Bot        *companion.CannedBot
	History    storage.HistoryStore

	CookieName   string
	SecureCookie bool

	// Ping backs the health check; nil means always healthy.
	Ping func(ctx context.Context) error
}

// Register mounts every route on r. Everything except signup, login and
// health needs a session.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	authed := r.Group("/", middleware.RequireSession(h.Auth, h.CookieName))
	authed.POST("/logout", h.Logout)

	authed.GET("/dashboard", h.Dashboard)
	authed.POST("/manual-save", h.ManualSave)
	authed.POST("/detect", h.Detect)

	authed.GET("/match-status", h.MatchStatus)
	authed.GET("/find-match", h.FindMatch)

	authed.GET("/chat/:match_id", h.ChatView)
	authed.POST("/send-message", h.SendMessage)
	authed.GET("/get-messages/:match_id", h.GetMessages)
	authed.POST("/end-chat/:match_id", h.EndChat)

	authed.GET("/ai-chat-page", h.AIChatPage)
	authed.POST("/ai-chat", h.AIChat)
	authed.GET("/ai-get-messages", h.AIGetMessages)
	authed.POST("/ai-clear", h.AIClear)
	authed.POST("/chatbot-response", h.ChatbotResponse)
}

func (h *Handler) Health(c *gin.Context) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// matchIDParam parses :match_id; false means the response was already written.
func matchIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("match_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
		return 0, false
	}
	return uint(id), true
}

func chatPath(matchID uint) string {
	return "/chat/" + strconv.FormatUint(uint64(matchID), 10)
}

// currentEmotion is the caller's latest label, neutral when they have none.
func (h *Handler) currentEmotion(ctx context.Context, userID uint) (emotion.Label, error) {
	rec, err := h.Storage.GetLatestEmotion(ctx, userID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return emotion.Neutral, nil
	}
	return rec.Label, nil
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
}
