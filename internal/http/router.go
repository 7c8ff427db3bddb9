package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/auth"
)

const hstsMaxAge = 31536000

// NewRouter creates and configures the HTTP router with all endpoints.
// The returned stop function releases background resources held by
// the handlers and should be called on shutdown.
func NewRouter(cfg RouterConfig) (*gin.Engine, func()) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogging(log))

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.AuthConfig.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	if cfg.DemoMiddleware != nil {
		router.Use(cfg.DemoMiddleware.Handler())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	}

	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.Handler())

	authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.Signups, cfg.AuthConfig, log)
	authController.RegisterRoutes(router)

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Catalog, cfg.Books, cfg.Authors, cfg.Favorites, cfg.Auditor)
	authors := NewAuthorsController(cfg.Authors)
	favorites := NewFavoritesController(cfg.Favorites)
	profile := NewProfileController(cfg.AuthService)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Catalog
	router.GET("/", books.Index)
	router.GET("/books", books.RedirectToIndex)
	router.GET("/api/books", books.ListBooks)
	router.GET("/api/books/:id", books.GetBook)
	if cfg.Covers != nil {
		books.SetCoverInvalidator(cfg.Covers)
		router.GET("/api/books/:id/cover", NewCoversController(cfg.Books, cfg.Covers).GetCover)
	}

	// Authors
	router.GET("/authors", authors.ListAuthors)
	router.GET("/api/authors", authors.ListAuthors)
	router.GET("/authors/:id", authors.GetAuthor)
	router.GET("/author/:id", authors.GetAuthor)
	router.GET("/api/authors/:id", authors.GetAuthor)

	// Favourites
	router.GET("/favorites", favorites.ListFavorites)
	router.GET("/api/favorites", favorites.ListFavorites)
	router.POST("/add-to-favorites", favorites.AddFavorite)
	router.POST("/remove-from-favorites", favorites.RemoveFavorite)

	router.GET("/api/me", cfg.AuthMiddleware.RequireAuth(), profile.Me)

	// Staff-only catalog management
	staff := router.Group("/", cfg.AuthMiddleware.RequireStaff())
	staff.GET("/create_book", books.CreateBookPage)
	staff.POST("/create_book", books.CreateBook)
	staff.POST("/books", books.CreateBook)
	staff.GET("/edit_book/:id", books.EditBookPage)
	staff.POST("/edit_book/:id", books.EditBook)
	staff.POST("/books/:id", books.EditBook)
	staff.PUT("/books/:id", books.EditBook)
	staff.POST("/delete_book", books.DeleteBook)
	staff.DELETE("/books/:id", books.DeleteBook)

	if cfg.AuditEvents != nil {
		audit := NewAuditController(cfg.AuditEvents)
		staff.GET("/api/audit", audit.GetAuditEvents)
	}

	if cfg.TaskRunner != nil {
		tasksController := NewTasksController(cfg.TaskRunner, cfg.AuditRetentionDays)
		staff.GET("/api/tasks/types", tasksController.ListTaskTypes)
		staff.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		staff.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router, authController.Stop
}
