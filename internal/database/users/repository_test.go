package users

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "users.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB)
}

func TestRepository_CreateAndGetUser(t *testing.T) {
	repo := setupTestRepo(t)

	user := &entities.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(user))
	assert.NotZero(t, user.ID)

	byID, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.False(t, byID.IsStaff)

	byName, err := repo.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestRepository_CreateUser_DuplicateUsername(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.CreateUser(&entities.User{Username: "alice", PasswordHash: "a"}))
	assert.Error(t, repo.CreateUser(&entities.User{Username: "alice", PasswordHash: "b"}))

	taken, err := repo.UsernameTaken("alice")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestRepository_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetUserByID(42)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = repo.GetUserByUsername("ghost")
	assert.ErrorIs(t, err, database.ErrNotFound)

	assert.ErrorIs(t, repo.SetStaff(42, true), database.ErrNotFound)
}

func TestRepository_SetStaffAndTouchLastLogin(t *testing.T) {
	repo := setupTestRepo(t)

	user := &entities.User{Username: "bob", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(user))

	require.NoError(t, repo.SetStaff(user.ID, true))
	require.NoError(t, repo.TouchLastLogin(user.ID, time.Now()))

	got, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsStaff)
	assert.NotNil(t, got.LastLoginAt)

	count, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
