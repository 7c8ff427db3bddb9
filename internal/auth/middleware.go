package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyIsStaff  = "auth_is_staff"
)

// AnonymousUserID is reported for requests without a logged-in user.
const AnonymousUserID = uint(0)

// Middleware resolves the logged-in user and guards protected routes.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	log            *zap.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, log *zap.Logger) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		log:            log.Named("auth"),
	}
}

// Handler identifies the user behind the session, if any. It never blocks:
// the catalog is public and guards are applied per route.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, AnonymousUserID)

		if user := m.trySessionAuth(c); user != nil {
			setUserContext(c, user)
		}
		c.Next()
	}
}

func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}

	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		m.log.Debug("session refers to unknown user", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}

	return user
}

func setUserContext(c *gin.Context, user *entities.User) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyUsername, user.Username)
	c.Set(ContextKeyIsStaff, user.IsStaff)
}

// IsAPIRequest distinguishes JSON clients from browsers.
func IsAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(c.ContentType(), "application/json")
}

// LoginURL is where anonymous browsers are sent, remembering the target.
func LoginURL(next string) string {
	return "/login?next=" + url.QueryEscape(next)
}

func abortUnauthenticated(c *gin.Context) {
	if IsAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": ErrAuthRequired.Error(),
		})
		return
	}
	c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
	c.Abort()
}

// RequireAuth rejects anonymous requests.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			abortUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// RequireStaff rejects anonymous and non-staff requests before the handler
// runs, so nothing is written on their behalf.
func (m *Middleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			abortUnauthenticated(c)
			return
		}
		if !IsStaff(c) {
			m.log.Info("staff permission denied",
				zap.Uint("user_id", GetUserID(c)),
				zap.String("path", c.Request.URL.Path),
			)
			if IsAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": ErrStaffRequired.Error(),
				})
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}
		c.Next()
	}
}

// Helper functions to extract auth data from Gin context

// GetUserID retrieves the authenticated user's ID from the context.
// Returns AnonymousUserID if nobody is logged in.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return AnonymousUserID
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// IsStaff reports whether the logged-in user may manage books.
func IsStaff(c *gin.Context) bool {
	return c.GetBool(ContextKeyIsStaff)
}

// IsAuthenticated returns true if the request is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != AnonymousUserID
}
