package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsMiddleware answers browser preflights for the configured origins.
// Credentials are allowed, so the origin is always echoed rather than "*".
func corsMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Add("Vary", "Origin")
		if origin, ok := resolveOrigin(c.GetHeader("Origin"), allowed); ok {
			headers.Set("Access-Control-Allow-Origin", origin)
			headers.Set("Access-Control-Allow-Credentials", "true")
			headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			headers.Set("Access-Control-Allow-Headers", allowHeaders(c.GetHeader("Access-Control-Request-Headers")))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func resolveOrigin(requestOrigin string, allowed []string) (string, bool) {
	if requestOrigin == "" {
		return "", false
	}
	for _, candidate := range allowed {
		if candidate == "*" || strings.EqualFold(candidate, requestOrigin) {
			return requestOrigin, true
		}
	}
	return "", false
}

func allowHeaders(requested string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return "Content-Type, Authorization, X-Request-ID"
}
