package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibro/internal/services"
)

// SessionCookieName — __Host- prefix: the browser only accepts it as
// Secure, Path=/ and without a Domain attribute.
const SessionCookieName = "__Host-session_secure"

// SessionAuth resolves the session cookie into a user identity for every
// route registered after it. Missing, tampered and expired sessions all
// collapse into the same 401.
func SessionAuth(sessions services.SessionService, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
			return
		}

		session, err := sessions.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired session"})
			return
		}

		user, err := users.GetByEmail(session.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		if user == nil || user.Suspended {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired session"})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("email", user.Email)

		c.Next()
	}
}
