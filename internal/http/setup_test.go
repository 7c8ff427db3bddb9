package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	auditsvc "github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	auditrepo "github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/demo"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/favorites"
)

const testPassword = "correct-horse-battery"

type testApp struct {
	router  *gin.Engine
	db      *database.Database
	books   *books.Repository
	authors *authors.Repository
	auth    *auth.Service
	audit   *auditsvc.Service
}

type appOption func(*RouterConfig)

func withCSRF(secret string) appOption {
	return func(cfg *RouterConfig) { cfg.CSRFSecret = []byte(secret) }
}

func withTaskRunner(runner TaskRunner) appOption {
	return func(cfg *RouterConfig) { cfg.TaskRunner = runner }
}

func withDemoMode() appOption {
	return func(cfg *RouterConfig) { cfg.DemoMiddleware = demo.NewMiddleware(true) }
}

func withCovers(source CoverSource) appOption {
	return func(cfg *RouterConfig) { cfg.Covers = source }
}

func setupApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	authCfg := config.Auth{
		SessionLifetime:    time.Hour,
		BcryptCost:         4,
		LoginRatePerMinute: 60,
		LoginBurst:         10,
	}
	sm, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)

	bookRepo := books.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	authService := auth.NewService(users.NewRepository(db.DB), authCfg)
	auditService := auditsvc.NewService(auditrepo.NewRepository(db.DB), zap.NewNop())
	t.Cleanup(auditService.Wait)

	cfg := RouterConfig{
		Catalog:            catalog.NewService(bookRepo),
		Books:              bookRepo,
		Authors:            authorRepo,
		Favorites:          favorites.NewService(sm.SessionManager, bookRepo),
		Database:           db,
		Auditor:            auditService,
		AuditEvents:        auditService,
		AuthService:        authService,
		SessionManager:     sm,
		AuthMiddleware:     auth.NewMiddleware(authService, sm, zap.NewNop()),
		AuthConfig:         authCfg,
		Signups:            auditService,
		AuditRetentionDays: 30,
		Version:            "test",
		Logger:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	router, stop := NewRouter(cfg)
	t.Cleanup(stop)

	return &testApp{
		router:  router,
		db:      db,
		books:   bookRepo,
		authors: authorRepo,
		auth:    authService,
		audit:   auditService,
	}
}

func (app *testApp) seedAuthor(t *testing.T, first, last string) *entities.Author {
	t.Helper()
	author, err := app.authors.GetOrCreateAuthor(first, last, "")
	require.NoError(t, err)
	return author
}

func (app *testApp) seedBook(t *testing.T, title string, author *entities.Author, popularity int) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title, AuthorID: author.ID, ISBN: "9780441172719", Popularity: popularity}
	require.NoError(t, app.books.CreateBook(book))
	return book
}

func (app *testApp) bookCount(t *testing.T) int64 {
	t.Helper()
	n, err := app.books.CountBooks()
	require.NoError(t, err)
	return n
}

// browser keeps the session cookie across requests like a real client.
type browser struct {
	t      *testing.T
	app    *testApp
	cookie *http.Cookie
	header http.Header
}

func (app *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: app, header: http.Header{}}
}

// apiClient sends and accepts JSON.
func (app *testApp) apiClient(t *testing.T) *browser {
	b := app.browser(t)
	b.header.Set("Accept", "application/json")
	return b
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()

	for k, v := range b.header {
		req.Header[k] = v
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	rr := httptest.NewRecorder()
	b.app.router.ServeHTTP(rr, req)

	for _, c := range responseCookies(rr) {
		if c.Name == "session" {
			b.cookie = c
		}
	}
	return rr
}

// responseCookies parses Set-Cookie from the live header map.
// ResponseRecorder.Result() misses headers added after the body was written.
func responseCookies(rr *httptest.ResponseRecorder) []*http.Cookie {
	header := http.Header{}
	for _, v := range rr.Header().Values("Set-Cookie") {
		header.Add("Set-Cookie", v)
	}
	resp := http.Response{Header: header}
	return resp.Cookies()
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	data, err := json.Marshal(body)
	require.NoError(b.t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

func (b *browser) login(username string) {
	b.t.Helper()
	rr := b.postForm("/login", url.Values{"username": {username}, "password": {testPassword}})
	require.Contains(b.t, []int{http.StatusSeeOther, http.StatusOK}, rr.Code, rr.Body.String())
}

// staff returns a browser logged in as a fresh staff account.
func (app *testApp) staff(t *testing.T) *browser {
	t.Helper()
	_, err := app.auth.CreateStaff("librarian", testPassword)
	require.NoError(t, err)
	b := app.browser(t)
	b.login("librarian")
	return b
}

// member returns a browser logged in as a regular account.
func (app *testApp) member(t *testing.T) *browser {
	t.Helper()
	_, err := app.auth.Signup("reader", testPassword)
	require.NoError(t, err)
	b := app.browser(t)
	b.login("reader")
	return b
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

type bookList struct {
	Books      []entities.Book `json:"books"`
	Count      int             `json:"count"`
	SortMethod string          `json:"sort_method"`
}

func titles(books []entities.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
