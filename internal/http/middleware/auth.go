package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier func(raw string) (int64, error)

// AuthOptional records the caller's user id when a valid bearer token is
// present. Requests without a token, or with a bad one, continue as guests.
func AuthOptional(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verify != nil {
			if raw, ok := bearerToken(c.GetHeader("Authorization")); ok {
				if uid, err := verify(raw); err == nil && uid > 0 {
					c.Set(userIDKey, uid)
				}
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (int64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := v.(int64)
	return uid, ok && uid > 0
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}
