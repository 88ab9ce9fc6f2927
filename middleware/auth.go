package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hotelbooking/models"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxUserEmail = "userEmail"
	CtxTokenHash = "tokenHash"
)

// SessionLookup resolves a token hash to its live session.
type SessionLookup interface {
	Get(ctx context.Context, tokenHash string) (*utils.AuthSession, error)
}

// UserLookup loads a user by id.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// JWTAuthMiddleware validates the bearer token. With a session store the token must also have
// a live session, so logout revokes it; without one the signature is trusted and the user
// is re-read so deleted accounts lose access.
func JWTAuthMiddleware(tokens *utils.TokenManager, sessions SessionLookup, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", err.Error())
			return
		}
		tokenHash := utils.HashToken(tokenString)
		ctx := c.Request.Context()

		role := claims.Role
		switch {
		case sessions != nil:
			session, err := sessions.Get(ctx, tokenHash)
			if errors.Is(err, utils.ErrSessionNotFound) {
				utils.JSONError(c, http.StatusUnauthorized, "Session expired or revoked", "")
				return
			}
			if err != nil {
				zap.L().Warn("Auth cache unavailable, falling back to user lookup", zap.Error(err))
				if !userExists(ctx, users, claims.Subject, &role) {
					utils.JSONError(c, http.StatusUnauthorized, "User not found", "")
					return
				}
				break
			}
			if session.UserID != claims.Subject {
				utils.JSONError(c, http.StatusUnauthorized, "Token mismatch", "")
				return
			}
			role = session.Role
		default:
			if !userExists(ctx, users, claims.Subject, &role) {
				utils.JSONError(c, http.StatusUnauthorized, "User not found", "")
				return
			}
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxUserRole, role)
		c.Set(CtxTokenHash, tokenHash)
		c.Next()
	}
}

// userExists re-reads the user and refreshes role from the stored record.
func userExists(ctx context.Context, users UserLookup, id string, role *string) bool {
	if users == nil {
		return true
	}
	u, err := users.GetByID(ctx, id)
	if err != nil || u == nil {
		return false
	}
	*role = u.Role
	return true
}
