package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
)

// UserGetter loads the account behind the current session.
type UserGetter interface {
	GetUserByID(id uint) (*entities.User, error)
}

// ProfileController handles user profile operations.
type ProfileController struct {
	users UserGetter
}

func NewProfileController(users UserGetter) *ProfileController {
	return &ProfileController{users: users}
}

// Me returns the logged-in account. Mounted behind RequireAuth.
// GET /api/me
func (pc *ProfileController) Me(c *gin.Context) {
	user, err := pc.users.GetUserByID(auth.GetUserID(c))
	if errors.Is(err, auth.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}
	if err != nil {
		respondInternalError(c, err, "load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
