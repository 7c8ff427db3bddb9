package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/covers"
	"github.com/mrlokans/catalog/internal/database"
)

type CoversController struct {
	books  BookStore
	covers CoverSource
}

func NewCoversController(books BookStore, covers CoverSource) *CoversController {
	return &CoversController{books: books, covers: covers}
}

// GetCover serves the cover image of a book, looked up by its ISBN.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.books.GetBookByID(id)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	path, err := cc.covers.GetCover(c.Request.Context(), book.ID, book.ISBN)
	if errors.Is(err, covers.ErrNoCover) {
		respondNotFound(c, "cover")
		return
	}
	if err != nil {
		RequestLogger(c).Warn("Cover fetch failed", zap.Uint("book_id", book.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "cover service unavailable"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
