package audit

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	auditRepo "github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "audit.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(auditRepo.NewRepository(db.DB), zap.NewNop())
	t.Cleanup(svc.Wait)
	return svc, db.DB
}

func waitForEvent(t *testing.T, db *gorm.DB, action string) entities.AuditEvent {
	t.Helper()

	var event entities.AuditEvent
	require.Eventually(t, func() bool {
		return db.Where("action = ?", action).First(&event).Error == nil
	}, time.Second, 10*time.Millisecond)
	return event
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventCreate,
		Action:    "book_create",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, svc.Log(event))

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "book_create", saved.Action)
}

func TestService_LogBookChange(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful delete", func(t *testing.T) {
		svc.LogBookChange(7, entities.AuditEventDelete, 3, "Dune", "127.0.0.1", nil)

		event := waitForEvent(t, db, "book_delete")
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "Deleted book: Dune", event.Description)
		require.NotNil(t, event.EntityID)
		assert.Equal(t, uint(3), *event.EntityID)
		assert.Equal(t, uint(7), event.UserID)
	})

	t.Run("failed create", func(t *testing.T) {
		svc.LogBookChange(7, entities.AuditEventCreate, 0, "Foundation", "", errors.New("disk full"))

		event := waitForEvent(t, db, "book_create")
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Nil(t, event.EntityID)
		assert.Contains(t, event.ErrorMsg, "disk full")
	})
}

func TestService_LogSignup(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogSignup(5, "alice", "10.0.0.1")

	event := waitForEvent(t, db, "user_signup")
	assert.Equal(t, entities.AuditEventSignup, event.EventType)
	assert.Equal(t, "user", event.EntityType)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
}

func TestService_WaitFlushesPendingEvents(t *testing.T) {
	svc, db := setupTestService(t)

	for i := uint(1); i <= 20; i++ {
		svc.LogSignup(i, "reader", "127.0.0.1")
	}
	svc.Wait()

	var count int64
	require.NoError(t, db.Model(&entities.AuditEvent{}).Where("action = ?", "user_signup").Count(&count).Error)
	assert.Equal(t, int64(20), count, "every queued event is written once Wait returns")
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{
		Action:    "old",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{Action: "fresh"}))

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("x", 600)
	got := truncate(long, maxErrorLength)
	assert.Len(t, got, maxErrorLength)
	assert.True(t, strings.HasSuffix(got, "..."))
}
