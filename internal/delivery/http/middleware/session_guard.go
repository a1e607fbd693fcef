package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"
)

// SessionGuard admits requests carrying a valid admin session cookie and
// stores the admin email in the context under domain.KeyUserEmail.
func SessionGuard(authUC domain.AuthUsecase, cookieName string, logger *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			logger.LogUnauthorizedAccess(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), GetRequestID(c), c.Request.URL.Path)
			response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}

		user, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.LogUnauthorizedAccess(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), GetRequestID(c), c.Request.URL.Path)
			response.Error(c, http.StatusUnauthorized, "Session is invalid or expired", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Next()
	}
}

// SessionEmail returns the admin email set by SessionGuard
func SessionEmail(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserEmail))
}
