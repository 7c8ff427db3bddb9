package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() config.Auth {
	return config.Auth{
		SessionLifetime:    24 * time.Hour,
		BcryptCost:         4, // Low cost for faster tests
		SecureCookies:      false,
		LoginRatePerMinute: 5,
		LoginBurst:         3,
	}
}

type testEnv struct {
	db       *database.Database
	service  *Service
	sessions *SessionManager
	mw       *Middleware
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "auth.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}

	cfg := testAuthConfig()
	sm, err := NewSessionManager(sqlDB, cfg)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	svc := NewService(users.NewRepository(db.DB), cfg)
	return &testEnv{
		db:       db,
		service:  svc,
		sessions: sm,
		mw:       NewMiddleware(svc, sm, zap.NewNop()),
	}
}

// sessionCookie extracts the session cookie from a response.
// ResponseRecorder.Result() misses headers added after the body was written,
// so the raw Set-Cookie header is parsed instead.
func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	header := http.Header{}
	for _, v := range rr.Header().Values("Set-Cookie") {
		header.Add("Set-Cookie", v)
	}
	resp := http.Response{Header: header}
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatalf("no session cookie in response: %v", rr.Header().Values("Set-Cookie"))
	return nil
}
