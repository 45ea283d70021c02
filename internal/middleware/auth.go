package middleware

import (
	"context"
	"net/http"
	"strings"

	"blood-bank-dashboard/internal/session"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Blacklist reports access tokens revoked before their expiry
type Blacklist interface {
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware validates the JWT access token from the Authorization header
// and puts the caller's session on the request context
func AuthMiddleware(blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := utils.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify token")
			c.Abort()
			return
		}
		if revoked {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Token has been revoked")
			c.Abort()
			return
		}

		attach(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's session when a valid, unrevoked bearer
// token is present and lets the request through either way
func OptionalAuth(blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			c.Next()
			return
		}

		claims, err := utils.ValidateAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		if revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID); err != nil || revoked {
			c.Next()
			return
		}

		attach(c, claims)
		c.Next()
	}
}

func attach(c *gin.Context, claims *utils.Claims) {
	s := session.Session{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}

	c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))
	c.Set("userID", s.UserID)
	c.Set("role", s.Role)
}

// SessionDirectory knows the latest session state announced for a user
type SessionDirectory interface {
	CurrentUser(userID string) (session.Session, bool)
}

// RefreshSession applies role and email changes announced after the access
// token was issued, so a demoted user loses access before the token expires.
// It runs after AuthMiddleware.
func RefreshSession(sessions SessionDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.Next()
			return
		}

		latest, known := sessions.CurrentUser(s.UserID)
		if known && latest.Role != "" && latest.IssuedAt.After(s.IssuedAt) {
			s.Role = latest.Role
			if latest.Email != "" {
				s.Email = latest.Email
			}
			c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))
			c.Set("role", s.Role)
		}
		c.Next()
	}
}

// CurrentSession returns the session AuthMiddleware attached to the request
func CurrentSession(c *gin.Context) (session.Session, bool) {
	return session.FromContext(c.Request.Context())
}

// RequireRoles lets the request through only for the given roles
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if !s.HasRole(roles...) {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient role for this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
