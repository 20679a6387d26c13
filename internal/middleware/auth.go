package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/jwt"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
	tokenCookie      = "token"
)

var errInactiveUser = errors.New("user is not active")

// UserLookup loads the account a token was issued to.
type UserLookup interface {
	FindUserByID(ctx context.Context, id string) (*models.UserModel, error)
}

// Auth returns a middleware that enforces JWT authentication. The account
// is reloaded on every request so role changes and suspensions apply at once.
func Auth(signer *jwt.Signer, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, signer, users)
		if err != nil {
			response.Unauthorized(c)
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth sets the user if a valid token is present, but does not block the request.
func OptionalAuth(signer *jwt.Signer, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := authenticate(c, signer, users); err == nil {
			setUser(c, user)
		}
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not listed. Must run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c)
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		response.ForbiddenMsg(c, "Insufficient permissions")
	}
}

func authenticate(c *gin.Context, signer *jwt.Signer, users UserLookup) (*models.UserModel, error) {
	token := extractToken(c)
	if token == "" {
		return nil, errors.New("token is required")
	}
	claims, err := signer.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := users.FindUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserSuspended {
		return nil, errInactiveUser
	}
	return user, nil
}

func setUser(c *gin.Context, user *models.UserModel) {
	c.Set(ContextKeyUser, user)
	c.Set(ContextKeyUserID, user.ID)
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.UserModel {
	v, _ := c.Get(ContextKeyUser)
	u, _ := v.(*models.UserModel)
	return u
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	if raw, err := c.Cookie(tokenCookie); err == nil {
		return NormalizeToken(raw)
	}
	return ""
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
