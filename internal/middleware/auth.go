package middleware

import (
	"strings"

	"docuvault/internal/auth"
	"docuvault/internal/errors"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key the verified session claims live under.
const ClaimsKey = "claims"

// Auth verifies the bearer token on every request and attaches the typed
// identity claims to the context. No database lookup happens here; the
// signed token is the session.
func Auth(tokens *auth.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Verify(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		ctx.Set(ClaimsKey, claims)
		ctx.Set("user_id", claims.UserID)
		ctx.Next()
	}
}

// RequireAdmin gates a route group to admin sessions. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := GetClaims(ctx)
		if claims == nil || claims.Role != "admin" {
			ctx.Error(errors.Forbidden("Admin access required", nil))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// GetClaims returns the session claims set by Auth, or nil.
func GetClaims(ctx *gin.Context) *auth.Claims {
	value, exists := ctx.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
