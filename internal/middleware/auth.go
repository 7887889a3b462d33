package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/session"
)

const (
	ContextUserID    = "userID"
	ContextSessionID = "sessionID"
	ContextUserRole  = "userRole"
	ContextUser      = "user"
)

type TokenParser interface {
	Parse(token string) (session.Claims, error)
}

type SessionRestorer interface {
	Restore(ctx context.Context, sid string) (*models.User, error)
}

func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// authenticate parses the token and restores its session. The role comes from
// the restored user, not the token, so demotions apply immediately.
func authenticate(c *gin.Context, tokens TokenParser, sessions SessionRestorer) error {
	raw, ok := bearer(c)
	if !ok {
		return httperr.ErrBusiness(httperr.CodeUnauthenticated)
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		return err
	}

	u, err := sessions.Restore(c.Request.Context(), claims.SessionID)
	if err != nil {
		return err
	}
	if u.ID != claims.UserID {
		return httperr.ErrBusiness(httperr.CodeUnauthenticated)
	}

	c.Set(ContextUserID, u.ID)
	c.Set(ContextSessionID, claims.SessionID)
	c.Set(ContextUserRole, u.Role)
	c.Set(ContextUser, u)
	return nil
}

func AuthMiddleware(tokens TokenParser, sessions SessionRestorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, tokens, sessions); err != nil {
			httperr.Respond(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid session is presented and
// otherwise continues anonymously.
func OptionalAuth(tokens TokenParser, sessions SessionRestorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := bearer(c); ok {
			_ = authenticate(c, tokens, sessions)
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != user.RoleAdmin {
			httperr.Respond(c, httperr.ErrBusiness(httperr.CodeForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware or OptionalAuth.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
