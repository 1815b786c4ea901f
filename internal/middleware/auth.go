package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"smartpass/internal/model"
	"smartpass/internal/repository"
	"smartpass/internal/service"
	"smartpass/pkg/response"

	"github.com/gin-gonic/gin"
)

// Gin context keys
const (
	ContextUserID = "userID"
	ContextActor  = "actor"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid or expired"
)

type ctxKey struct{}

// WithUserID binds the authenticated subject to ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the subject bound by RequireAuth, or ""
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// UserID returns the authenticated subject of the request, or ""
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Actor returns the user loaded by RequireCapability, if any
func Actor(c *gin.Context) *model.User {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// UserLookup is the slice of the credential store the guard needs
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// bearerToken reads the Authorization header. The Bearer prefix is optional and case-insensitive.
func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.EqualFold(h, "bearer") {
		return ""
	}
	if len(h) >= 7 && strings.EqualFold(h[:7], "bearer ") {
		h = h[7:]
	}
	return strings.TrimSpace(h)
}

func bind(c *gin.Context, userID string) {
	c.Set(ContextUserID, userID)
	c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
}

func authenticate(c *gin.Context, tokens service.TokenService, tokenString string) bool {
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, msgNoToken))
		return false
	}
	userID, err := tokens.Verify(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, msgInvalidToken))
		return false
	}
	bind(c, userID)
	return true
}

// RequireAuth verifies the bearer token and binds its subject to the request
func RequireAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens, bearerToken(c)) {
			return
		}
		c.Next()
	}
}

// RequireAuthOrQuery also accepts ?token=, for websocket upgrades where browsers cannot set headers
func RequireAuthOrQuery(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = strings.TrimSpace(c.Query("token"))
		}
		if !authenticate(c, tokens, tokenString) {
			return
		}
		c.Next()
	}
}

// OptionalAuth binds the subject when a token is present. A present but invalid token is still rejected.
func OptionalAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		if !authenticate(c, tokens, tokenString) {
			return
		}
		c.Next()
	}
}

// RequireCapability loads the authenticated user from the store and checks one capability flag.
// The loaded user is bound to the request context for the service layer. Must run after RequireAuth.
func RequireCapability(users UserLookup, capability model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, msgNoToken))
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User no longer exists"))
				return
			}
			log.Printf("capability check failed for %s [request_id=%s]: %v", userID, GetRequestID(c), err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
			return
		}

		if !model.Authorize(user, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Forbidden"))
			return
		}

		c.Set(ContextActor, user)
		c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), user))
		c.Next()
	}
}

// Guard bundles the token verifier and user lookup shared by every route group
type Guard struct {
	Tokens service.TokenService
	Users  UserLookup
}

// Auth is RequireAuth bound to the guard's token service
func (g Guard) Auth() gin.HandlerFunc {
	return RequireAuth(g.Tokens)
}

// Can is RequireCapability bound to the guard's user lookup
func (g Guard) Can(capability model.Capability) gin.HandlerFunc {
	return RequireCapability(g.Users, capability)
}
