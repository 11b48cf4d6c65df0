package handler

import (
	"errors"
	"moodmatch/backend/internal/api/middleware"
	"moodmatch/backend/internal/auth"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates an account.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, username and password are required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := &models.User{Email: req.Email, Username: req.Username, PasswordHash: hash}
	if err := h.Storage.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email or username already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user_id": user.ID})
}

// Login checks credentials and starts a session. The token is returned in
// the body and set as an HTTP-only cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.Storage.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, id, err := h.Auth.Issue(user.ID, user.DisplayName())
	if err != nil {
		logger.Get().Error().Err(err).Uint("user_id", user.ID).Msg("failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, token, int(h.Auth.TTL().Seconds()), "/", "", h.SecureCookie, true)
	logger.Get().Info().Uint("user_id", user.ID).Str("session_id", id.SessionID).Msg("user logged in")

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"token":    token,
		"username": user.DisplayName(),
		"redirect": dashboardPath,
	})
}

// Logout revokes the session and drops its AI companion history.
func (h *Handler) Logout(c *gin.Context) {
	id := middleware.Identity(c)
	ctx := c.Request.Context()

	if err := h.Auth.Revoke(ctx, id); err != nil {
		logger.Get().Error().Err(err).Str("session_id", id.SessionID).Msg("failed to revoke session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	if err := h.History.Clear(ctx, id.SessionID); err != nil {
		logger.Get().Warn().Err(err).Str("session_id", id.SessionID).Msg("failed to clear companion history")
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, "", -1, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/"})
}
