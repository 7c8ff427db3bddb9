package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestService_Signup(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.service.Signup("reader", "password123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("expected user ID to be assigned")
	}
	if user.IsStaff {
		t.Error("signed up users must not be staff")
	}
	if user.PasswordHash == "password123" {
		t.Error("password must be stored hashed")
	}
}

func TestService_Signup_Validation(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := env.service.Signup("taken", "password123"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"empty username", "", "password123", ErrUsernameRequired},
		{"username with spaces", "two words", "password123", ErrUsernameInvalid},
		{"username too long", strings.Repeat("u", 151), "password123", ErrUsernameInvalid},
		{"empty password", "newuser", "", ErrPasswordRequired},
		{"short password", "newuser", "short", ErrPasswordTooShort},
		{"duplicate username", "taken", "password123", ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Signup(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Signup() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_CreateStaff(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("new account", func(t *testing.T) {
		user, err := env.service.CreateStaff("librarian", "password123")
		if err != nil {
			t.Fatalf("CreateStaff() error = %v", err)
		}
		if !user.IsStaff {
			t.Error("expected staff account")
		}
	})

	t.Run("promotes existing account", func(t *testing.T) {
		regular, err := env.service.Signup("promoted", "password123")
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}

		user, err := env.service.CreateStaff("promoted", "password123")
		if err != nil {
			t.Fatalf("CreateStaff() error = %v", err)
		}
		if user.ID != regular.ID {
			t.Errorf("expected the existing account %d, got %d", regular.ID, user.ID)
		}

		reloaded, err := env.service.GetUserByID(regular.ID)
		if err != nil {
			t.Fatalf("GetUserByID() error = %v", err)
		}
		if !reloaded.IsStaff {
			t.Error("existing account should now be staff")
		}
	})
}

func TestService_Authenticate(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := env.service.Signup("reader", "password123"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := env.service.Authenticate("reader", "password123")
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login to be recorded")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.service.Authenticate("reader", "wrongpassword")
		if !errors.Is(err, ErrInvalidPassword) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidPassword", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.service.Authenticate("ghost", "password123")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Authenticate() error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestService_GetUserByID_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := env.service.GetUserByID(99); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrUserNotFound", err)
	}
}

func TestService_HasUsers(t *testing.T) {
	env := setupTestEnv(t)

	has, err := env.service.HasUsers()
	if err != nil || has {
		t.Fatalf("HasUsers() = %v, %v; want false, nil", has, err)
	}

	if _, err := env.service.Signup("reader", "password123"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	has, err = env.service.HasUsers()
	if err != nil || !has {
		t.Errorf("HasUsers() = %v, %v; want true, nil", has, err)
	}
}
