package middleware

import (
	"errors"
	"net/http"
	"strings"

	pkgAuth "casino-service/pkg/auth"
	appErr "casino-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

const ContextSessionKey = "sessionKey"

func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := pkgAuth.ParseSessionToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": appErr.ErrUnauthorized.Error()})
			return
		}

		c.Set(ContextSessionKey, claims.SessionKey)
		c.Next()
	}
}

func SessionKey(c *gin.Context) string {
	return c.GetString(ContextSessionKey)
}

func BearerToken(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
