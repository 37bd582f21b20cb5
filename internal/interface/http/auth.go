package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/legal-assistant/internal/domain/auth"
	apperrors "github.com/yanqian/legal-assistant/pkg/errors"
)

const claimsKey = "auth_claims"

// authMiddleware requires a bearer token issued by auth.Service and stores
// its claims on the request context for requestLogger.
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing or malformed bearer token", nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if apperrors.IsCode(err, auth.CodeInvalidToken) {
				abortWithError(c, NewHTTPError(http.StatusForbidden, auth.CodeInvalidToken, errMessage(err), err))
				return
			}
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_failed", errMessage(err), err))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// subject returns the authenticated caller, if any.
func subject(c *gin.Context) (string, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return "", false
	}
	claims, ok := value.(auth.Claims)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}
