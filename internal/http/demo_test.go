package http

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoMode_BlocksCatalogWrites(t *testing.T) {
	app := setupApp(t, withDemoMode())
	dune, _ := seedDuneAndFoundation(t, app)
	staff := app.staff(t)

	rr := staff.postForm("/create_book", validBookForm(dune.AuthorID))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = staff.postForm("/delete_book", url.Values{"book_id": {fmt.Sprint(dune.ID)}})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = app.browser(t).postForm("/signup", url.Values{
		"username": {"newcomer"}, "password": {testPassword}, "password_confirmation": {testPassword},
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	assert.Equal(t, int64(2), app.bookCount(t))
}

func TestDemoMode_FavoritesStillWork(t *testing.T) {
	app := setupApp(t, withDemoMode())
	dune, _ := seedDuneAndFoundation(t, app)
	b := app.browser(t)

	index := decode[map[string]any](t, b.get("/"))
	assert.Equal(t, true, index["demo_mode"])

	rr := b.postForm("/add-to-favorites", url.Values{"book_id": {fmt.Sprint(dune.ID)}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	list := decode[bookList](t, b.get("/api/favorites"))
	assert.Equal(t, []string{"Dune"}, titles(list.Books))
}
