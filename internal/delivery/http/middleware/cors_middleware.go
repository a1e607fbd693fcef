package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/config"
)

// CORSMiddleware adds CORS headers for the portfolio frontend.
//
// Allowed origins are FRONTEND_URL plus CORS_ALLOWED_ORIGINS. Outside
// release mode localhost dev servers are allowed too. Credentials are
// always allowed because the admin session lives in a cookie.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := map[string]bool{}
	if cfg.FrontendURL != "" {
		allowed[cfg.FrontendURL] = true
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		allowed[origin] = true
	}
	if !cfg.IsProduction() {
		for _, origin := range []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:3001"} {
			allowed[origin] = true
		}
	}

	return func(c *gin.Context) {
		origin := strings.TrimRight(c.Request.Header.Get("Origin"), "/")

		// Empty origin: same-origin or non-browser client
		isAllowed := origin == "" || allowed[origin]

		if isAllowed && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, If-Match, accept, origin, Cache-Control, X-Requested-With")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Expose-Headers", "ETag, Retry-After, X-Request-ID, Content-Disposition")
			c.Header("Access-Control-Max-Age", "86400")
		}
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			if isAllowed {
				c.AbortWithStatus(http.StatusNoContent)
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}

		c.Next()
	}
}
