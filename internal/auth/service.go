package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

// Letters, digits and @.+-_ only, like most account systems accept.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("a user with that username already exists")
	ErrAuthRequired     = errors.New("authentication required")
	ErrStaffRequired    = errors.New("staff permissions required")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username may contain only letters, digits and @/./+/-/_ characters (150 max)")
)

// UserStore is the persistence the service needs.
type UserStore interface {
	CreateUser(user *entities.User) error
	GetUserByID(id uint) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
	UsernameTaken(username string) (bool, error)
	SetStaff(id uint, isStaff bool) error
	TouchLastLogin(id uint, at time.Time) error
	CountUsers() (int64, error)
}

// Service handles authentication and user management.
type Service struct {
	users  UserStore
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserStore, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// Signup registers a regular, non-staff account.
func (s *Service) Signup(username, password string) (*entities.User, error) {
	return s.createUser(username, password, false)
}

// CreateStaff registers an account with staff permissions. An existing
// account with the same username is promoted instead.
func (s *Service) CreateStaff(username, password string) (*entities.User, error) {
	user, err := s.createUser(username, password, true)
	if !errors.Is(err, ErrUserExists) {
		return user, err
	}

	existing, err := s.users.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing user: %w", err)
	}
	if err := s.users.SetStaff(existing.ID, true); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	existing.IsStaff = true
	return existing, nil
}

func (s *Service) createUser(username, password string, isStaff bool) (*entities.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	taken, err := s.users.UsernameTaken(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
		IsStaff:      isStaff,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// ValidateUsername checks the username format.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(user.ID, now); err == nil {
		user.LastLoginAt = &now
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// HasUsers returns true if any users exist in the database.
func (s *Service) HasUsers() (bool, error) {
	count, err := s.users.CountUsers()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
