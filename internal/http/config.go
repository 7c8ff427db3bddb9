package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/demo"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog   *catalog.Service
	Books     BookStore
	Authors   AuthorStore
	Favorites Favorites
	Database  Pinger

	// Audit trail; both optional
	Auditor     BookAuditor
	AuditEvents AuditReader

	// Authentication. SessionManager and AuthMiddleware are required since
	// favourites live in the session.
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	Signups        auth.SignupRecorder

	// Cover images by ISBN (optional)
	Covers CoverSource

	// CSRF protection is skipped when empty
	CSRFSecret []byte

	// Task queue (optional)
	TaskRunner         TaskRunner
	AuditRetentionDays int

	// Rejects catalog writes when enabled; nil means disabled
	DemoMiddleware *demo.Middleware

	// Application info
	Version string

	Logger *zap.Logger
}
