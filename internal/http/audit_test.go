package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/entities"
)

type auditPage struct {
	Events      []entities.AuditEvent `json:"events"`
	Page        int                   `json:"page"`
	Limit       int                   `json:"limit"`
	TotalPages  int                   `json:"total_pages"`
	TotalEvents int64                 `json:"total_events"`
}

func TestAuditEvents_StaffOnly(t *testing.T) {
	app := setupApp(t)

	assert.Equal(t, http.StatusUnauthorized, app.apiClient(t).get("/api/audit").Code)
	assert.Equal(t, http.StatusForbidden, app.member(t).get("/api/audit").Code)
}

func TestAuditEvents_RecordsSignupAndChanges(t *testing.T) {
	app := setupApp(t)
	author := app.seedAuthor(t, "Frank", "Herbert")

	rr := app.browser(t).postForm("/signup", url.Values{
		"username":              {"newcomer"},
		"password":              {testPassword},
		"password_confirmation": {testPassword},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())

	staff := app.staff(t)
	staff.postForm("/create_book", validBookForm(author.ID))

	require.Eventually(t, func() bool {
		_, total, err := app.audit.GetEvents("", 10, 0)
		return err == nil && total == 2
	}, timeout, tick)

	page := decode[auditPage](t, staff.get("/api/audit?limit=1"))
	assert.Equal(t, int64(2), page.TotalEvents)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Events, 1)

	page = decode[auditPage](t, staff.get("/api/audit?type=signup"))
	require.Len(t, page.Events, 1)
	assert.Equal(t, entities.AuditEventSignup, page.Events[0].EventType)

	assert.Equal(t, http.StatusBadRequest, staff.get("/api/audit?type=bogus").Code)
}
