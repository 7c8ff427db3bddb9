package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/database"
)

type AuthorsController struct {
	authors AuthorStore
}

func NewAuthorsController(authors AuthorStore) *AuthorsController {
	return &AuthorsController{authors: authors}
}

// ListAuthors GET /authors, /api/authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	authors, err := ac.authors.GetAllAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors, "count": len(authors)})
}

// GetAuthor returns an author with their books.
// GET /authors/:id, /author/:id, /api/authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.authors.GetAuthorByID(id)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "author")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}
