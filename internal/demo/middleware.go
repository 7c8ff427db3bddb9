// Package demo implements a read-only demo mode for public showcase instances.
package demo

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const blockedMessage = "This action is disabled in demo mode"

// ContextKeyDemoMode holds the demo flag in the gin context.
const ContextKeyDemoMode = "demo_mode"

// Paths that stay writable in demo mode. Logging in and favourites only
// touch the visitor's own session, never the catalog.
var allowedPaths = []string{
	"/login",
	"/logout",
	"/add-to-favorites",
	"/remove-from-favorites",
}

// Middleware rejects requests that would change the catalog or accounts
// while demo mode is on.
type Middleware struct {
	enabled bool
}

func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a gin middleware that blocks write requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyDemoMode, m.enabled)

		if !m.enabled || isReadOnly(c.Request.Method) || isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		respondBlocked(c)
	}
}

// IsDemoMode reports whether the request passed through an enabled Middleware.
func IsDemoMode(c *gin.Context) bool {
	return c.GetBool(ContextKeyDemoMode)
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func isAllowedPath(path string) bool {
	for _, allowed := range allowedPaths {
		if path == allowed {
			return true
		}
	}
	return false
}

func respondBlocked(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     blockedMessage,
			"demo_mode": true,
		})
		return
	}
	c.String(http.StatusForbidden, blockedMessage)
	c.Abort()
}
