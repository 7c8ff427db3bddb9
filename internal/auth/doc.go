// Package auth provides session-based authentication and the staff
// authorization guard.
//
// Every visitor gets an scs session, logged in or not; the same session
// carries the favourites list. Logging in renews the session token and
// stores the user id in it.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex>         # CSRF signing key, generated if empty
//	AUTH_SESSION_LIFETIME=336h        # Session duration
//	AUTH_BCRYPT_COST=12               # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true          # HTTPS-only cookies
//	AUTH_LOGIN_RATE_PER_MINUTE=5      # Failed logins allowed per minute
//	AUTH_LOGIN_BURST=5                # Failed logins allowed back to back
//
// # Usage
//
//	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessionManager, logger)
//	router.Use(sessionManager.SessionLoadSave(), authMiddleware.Handler())
//
//	staff := router.Group("/", authMiddleware.RequireStaff())
//	staff.POST("/books", booksController.CreateBook)
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c) // AnonymousUserID when nobody is logged in
package auth
