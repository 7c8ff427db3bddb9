package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/alexedwards/scs/v2"

	auditsvc "github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/covers"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/favorites"
	"github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.BookStore = (*books.Repository)(nil)
var _ http.AuthorStore = (*authors.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

var _ catalog.BookLister = (*books.Repository)(nil)
var _ favorites.BookResolver = (*books.Repository)(nil)

var _ auth.UserStore = (*users.Repository)(nil)

// =============================================================================
// Sessions
// =============================================================================

var _ favorites.SessionStore = (*scs.SessionManager)(nil)
var _ http.Favorites = (*favorites.Service)(nil)
var _ http.UserGetter = (*auth.Service)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.BookAuditor = (*auditsvc.Service)(nil)
var _ http.AuditReader = (*auditsvc.Service)(nil)
var _ auth.SignupRecorder = (*auditsvc.Service)(nil)
var _ tasks.AuditEventCleaner = (*auditsvc.Service)(nil)

// =============================================================================
// Task Queue
// =============================================================================

var _ http.TaskRunner = (*tasks.Client)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)

// =============================================================================
// Covers
// =============================================================================

var _ http.CoverSource = (*covers.Cache)(nil)
