package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecowaste-backend/pkg/jwt"
)

// Context keys set by AuthMiddleware
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// TokenVersionChecker resolves the current token version for a user.
// Injected as a capability so the middleware does not depend on the
// user domain directly and can be faked in tests.
type TokenVersionChecker interface {
	TokenVersion(ctx context.Context, userID uuid.UUID) (int, error)
}

// AuthMiddleware verifies the bearer token and loads identity into the context.
// Tokens whose token_version no longer matches the user record are rejected,
// which is how "log out everywhere" works.
func AuthMiddleware(jwtManager *jwt.Manager, versions TokenVersionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token from "Bearer <token>"
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "missing or malformed authorization header")
			return
		}

		// 2. Verify signature and token type
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			unauthorized(c, "invalid user ID in token")
			return
		}

		// 3. Reject tokens issued before the last logout-all
		currentVersion, err := versions.TokenVersion(c.Request.Context(), userID)
		if err != nil || currentVersion != claims.TokenVersion {
			unauthorized(c, "session expired")
			return
		}

		// 4. Identity available to handlers downstream
		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return "", false
	}
	return authHeader[len(prefix):], true
}

func unauthorized(c *gin.Context, msg string) {
	c.JSON(401, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
	c.Abort()
}

// GetUserID returns the authenticated user ID from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(CtxUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// GetEmail returns the authenticated user's email from the gin context
func GetEmail(c *gin.Context) string {
	return c.GetString(CtxEmail)
}

// GetRole returns the authenticated user's role from the gin context
func GetRole(c *gin.Context) string {
	return c.GetString(CtxRole)
}
