package audit

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/entities"
)

const maxErrorLength = 500

// Service records staff mutations and account events.
type Service struct {
	repo *audit.Repository
	log  *zap.Logger

	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log.Named("audit")}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.log.Error("failed to log audit event",
				zap.String("action", event.Action),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every event queued with LogAsync has been written.
// Call it before closing the database.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogBookChange records a create, update or delete of a book by a staff user.
func (s *Service) LogBookChange(userID uint, eventType entities.AuditEventType, bookID uint, title, ipAddr string, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   eventType,
		Action:      "book_" + string(eventType),
		Description: fmt.Sprintf("%s book: %s", pastTense(eventType), title),
		EntityType:  "book",
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}
	if bookID != 0 {
		event.EntityID = &bookID
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLength)
	}

	s.LogAsync(event)
}

// LogSignup records a self-registration.
func (s *Service) LogSignup(userID uint, username, ipAddr string) {
	s.LogAsync(&entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventSignup,
		Action:      "user_signup",
		Description: "Signed up: " + username,
		EntityType:  "user",
		EntityID:    &userID,
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	})
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func pastTense(eventType entities.AuditEventType) string {
	switch eventType {
	case entities.AuditEventCreate:
		return "Created"
	case entities.AuditEventUpdate:
		return "Updated"
	case entities.AuditEventDelete:
		return "Deleted"
	default:
		return string(eventType)
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
