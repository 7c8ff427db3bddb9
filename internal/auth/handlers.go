package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/validation"
)

// isLocalPath validates that a redirect path is local to prevent open redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// SignupRecorder is notified about new accounts.
type SignupRecorder interface {
	LogSignup(userID uint, username, ipAddr string)
}

// SignupForm is the self-registration payload.
type SignupForm struct {
	Username             string `form:"username" json:"username" binding:"required,max=150"`
	Password             string `form:"password" json:"password" binding:"required"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginForm is the login payload.
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	signups        SignupRecorder
	log            *zap.Logger
}

// NewAuthController creates a new authentication controller. signups may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, signups SignupRecorder, cfg config.Auth, log *zap.Logger) *AuthController {
	validation.Register()

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter: NewRateLimiter(RateLimitConfig{
			PerMinute: cfg.LoginRatePerMinute,
			Burst:     cfg.LoginBurst,
		}),
		signups: signups,
		log:     log.Named("auth"),
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	for _, prefix := range []string{"", "/accounts"} {
		router.GET(prefix+"/login", ac.LoginPage)
		router.POST(prefix+"/login", ac.rateLimiter.RateLimitMiddleware(), ac.Login)
		router.POST(prefix+"/logout", ac.Logout)
		router.GET(prefix+"/logout", ac.Logout)
	}
	router.GET("/signup", ac.SignupPage)
	router.POST("/signup", ac.Signup)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	ac.rateLimiter.Stop()
}

// LoginPage describes the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form":       []string{"username", "password", "next"},
		"next":       sanitizeRedirectPath(c.Query("next")),
		"csrf_token": GetCSRFToken(c),
		"error":      c.Query("error"),
	})
}

// Login handles the login form submission.
func (ac *AuthController) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		respondFormErrors(c, err, gin.H{"username": form.Username})
		return
	}

	next := sanitizeRedirectPath(form.Next)
	clientIP := c.ClientIP()

	user, err := ac.service.Authenticate(form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidPassword) {
			ac.log.Error("authentication failed", zap.String("username", form.Username), zap.Error(err))
		}
		ac.rateLimiter.RecordFailure(clientIP, form.Username)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "invalid username or password",
			"username": form.Username,
			"next":     next,
		})
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, form.Username)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		ac.log.Error("failed to create session", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	ac.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.Bool("staff", user.IsStaff))
	respondLoggedIn(c, user, next)
}

// Logout destroys the session and redirects to login.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		ac.log.Warn("failed to destroy session", zap.Error(err))
	}

	if IsAPIRequest(c) {
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// SignupPage describes the sign-up form.
func (ac *AuthController) SignupPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":       []string{"username", "password", "password_confirmation"},
		"csrf_token": GetCSRFToken(c),
	})
}

// Signup registers a non-staff account and logs it in.
func (ac *AuthController) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		respondFormErrors(c, err, gin.H{"username": form.Username})
		return
	}

	user, err := ac.service.Signup(form.Username, form.Password)
	if err != nil {
		field, ok := signupErrorField(err)
		if !ok {
			ac.log.Error("signup failed", zap.String("username", form.Username), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": validation.FieldErrors{field: err.Error()},
			"input":  gin.H{"username": form.Username},
		})
		return
	}

	if ac.signups != nil {
		ac.signups.LogSignup(user.ID, user.Username, c.ClientIP())
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		ac.log.Error("failed to create session", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	ac.log.Info("user signed up", zap.Uint("user_id", user.ID))
	respondLoggedIn(c, user, "/")
}

func signupErrorField(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrUsernameRequired), errors.Is(err, ErrUsernameInvalid), errors.Is(err, ErrUserExists):
		return "username", true
	case errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong):
		return "password", true
	default:
		return "", false
	}
}

func respondLoggedIn(c *gin.Context, user *entities.User, next string) {
	if IsAPIRequest(c) {
		c.JSON(http.StatusOK, gin.H{"user": user, "next": next})
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

// respondFormErrors replies 422 with field errors, or 400 for bodies that
// could not be decoded at all. Passwords are never echoed.
func respondFormErrors(c *gin.Context, err error, input gin.H) {
	fields, ok := validation.Translate(err)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"errors": fields,
		"input":  input,
	})
}
