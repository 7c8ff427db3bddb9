package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/entities"
)

type AuditController struct {
	events AuditReader
}

func NewAuditController(events AuditReader) *AuditController {
	return &AuditController{events: events}
}

type EventTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// GetAuditEvents returns paginated audit events as JSON.
// GET /api/audit?type=create&page=1&limit=25
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	eventType := entities.AuditEventType(c.Query("type"))
	if eventType != "" && !knownEventType(eventType) {
		respondBadRequest(c, "unknown event type: "+string(eventType))
		return
	}
	offset := (page - 1) * limit

	events, total, err := ac.events.GetEvents(eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
		"event_types":  eventTypes(),
	})
}

func eventTypes() []EventTypeOption {
	return []EventTypeOption{
		{Value: "", Label: "All Events"},
		{Value: string(entities.AuditEventCreate), Label: "Book created"},
		{Value: string(entities.AuditEventUpdate), Label: "Book updated"},
		{Value: string(entities.AuditEventDelete), Label: "Book deleted"},
		{Value: string(entities.AuditEventSignup), Label: "Sign-up"},
	}
}

func knownEventType(t entities.AuditEventType) bool {
	for _, opt := range eventTypes() {
		if opt.Value != "" && opt.Value == string(t) {
			return true
		}
	}
	return false
}
