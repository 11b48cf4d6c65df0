package middleware

import (
	"errors"
	"moodmatch/backend/internal/auth"
	"moodmatch/backend/internal/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// RequireSession authenticates the request from a Bearer header, falling
// back to the session cookie. Failures end the chain with 401.
func RequireSession(mgr *auth.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := mgr.Authenticate(c.Request.Context(), extractToken(c, cookieName))
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				logger.Get().Error().Err(err).Msg("session check failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrUnauthenticated.Error()})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// Identity returns the caller stored by RequireSession, or nil.
func Identity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}
