package http

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/validation"
)

// BookForm is the create/edit payload. Numbers arrive as text from HTML
// forms, so they are bound as json.Number and validated before parsing.
type BookForm struct {
	Title      string      `form:"title" json:"title" binding:"required,max=255"`
	AuthorID   json.Number `form:"author_id" json:"author_id" binding:"required,number"`
	ISBN       string      `form:"isbn" json:"isbn" binding:"required,isbn"`
	Popularity json.Number `form:"popularity" json:"popularity" binding:"omitempty,number"`
}

// bookFormFields lists the form inputs in display order.
var bookFormFields = []string{"title", "author_id", "isbn", "popularity"}

func bookFormFromBook(book *entities.Book) BookForm {
	return BookForm{
		Title:      book.Title,
		AuthorID:   json.Number(strconv.FormatUint(uint64(book.AuthorID), 10)),
		ISBN:       book.ISBN,
		Popularity: json.Number(strconv.Itoa(book.Popularity)),
	}
}

func (f BookForm) input() gin.H {
	return gin.H{
		"title":      f.Title,
		"author_id":  f.AuthorID.String(),
		"isbn":       f.ISBN,
		"popularity": f.Popularity.String(),
	}
}

// apply validates what the binding tags cannot express and copies the
// form onto book. book is left untouched when errors are returned.
func (f BookForm) apply(book *entities.Book, authors AuthorStore) (validation.FieldErrors, error) {
	errs := validation.FieldErrors{}

	title := strings.TrimSpace(f.Title)
	if title == "" {
		errs.Add("title", "title is required")
	}

	authorID, err := strconv.ParseUint(f.AuthorID.String(), 10, 32)
	if err != nil {
		errs.Add("author_id", "author id must be a whole number")
	} else {
		exists, err := authors.AuthorExists(uint(authorID))
		if err != nil {
			return nil, err
		}
		if !exists {
			errs.Add("author_id", "select a valid author")
		}
	}

	popularity := 0
	if f.Popularity != "" {
		popularity, err = strconv.Atoi(f.Popularity.String())
		if err != nil {
			errs.Add("popularity", "popularity is too large")
		}
	}

	if len(errs) > 0 {
		return errs, nil
	}

	book.Title = title
	book.AuthorID = uint(authorID)
	book.ISBN = validation.NormalizeISBN(f.ISBN)
	book.Popularity = popularity
	return nil, nil
}
