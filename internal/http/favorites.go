package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FavoritesController exposes the session favourites list. Book ids are
// stored as submitted; resolution against the catalog happens on read.
type FavoritesController struct {
	favorites Favorites
}

func NewFavoritesController(favorites Favorites) *FavoritesController {
	return &FavoritesController{favorites: favorites}
}

// ListFavorites returns the favourite books that still exist.
// GET /favorites, /api/favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	books, err := fc.favorites.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// AddFavorite appends book_id to the session list; duplicates are kept.
// POST /add-to-favorites
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	bookID, ok := fc.bookID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	fc.favorites.Add(ctx, bookID)
	respondDone(c, "/", http.StatusOK, gin.H{"favorites": fc.favorites.IDs(ctx)})
}

// RemoveFavorite drops the first occurrence of book_id, if any.
// POST /remove-from-favorites
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	bookID, ok := fc.bookID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	fc.favorites.Remove(ctx, bookID)
	respondDone(c, "/", http.StatusOK, gin.H{"favorites": fc.favorites.IDs(ctx)})
}

func (fc *FavoritesController) bookID(c *gin.Context) (string, bool) {
	bookID := c.PostForm("book_id")
	if bookID == "" {
		respondBadRequest(c, "book_id is required")
		return "", false
	}
	return bookID, true
}
