package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/demo"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/validation"
)

type BooksController struct {
	catalog   *catalog.Service
	books     BookStore
	authors   AuthorStore
	favorites Favorites
	auditor   BookAuditor
	covers    CoverInvalidator
}

// NewBooksController wires the catalog handlers. auditor may be nil.
func NewBooksController(catalogService *catalog.Service, books BookStore, authors AuthorStore, favorites Favorites, auditor BookAuditor) *BooksController {
	validation.Register()

	return &BooksController{
		catalog:   catalogService,
		books:     books,
		authors:   authors,
		favorites: favorites,
		auditor:   auditor,
	}
}

// SetCoverInvalidator drops cached covers when a book is deleted or its
// ISBN changes.
func (bc *BooksController) SetCoverInvalidator(covers CoverInvalidator) {
	bc.covers = covers
}

// Index is the catalog landing page: filtered, sorted books plus authors.
// GET /
func (bc *BooksController) Index(c *gin.Context) {
	bc.favorites.EnsureInitialized(c.Request.Context())

	query := catalog.QueryFromValues(c.Request.URL.Query())
	books, err := bc.catalog.ListBooks(query)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	authors, err := bc.authors.GetAllAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":       books,
		"count":       len(books),
		"authors":     authors,
		"sort_method": query.Sort,
		"filter":      query.Filter,
		"is_staff":    auth.IsStaff(c),
		"csrf_token":  auth.GetCSRFToken(c),
		"demo_mode":   demo.IsDemoMode(c),
	})
}

// ListBooks returns the catalog query result.
// GET /api/books?sort=asc|desc&q=text
func (bc *BooksController) ListBooks(c *gin.Context) {
	bc.favorites.EnsureInitialized(c.Request.Context())

	query := catalog.QueryFromValues(c.Request.URL.Query())
	books, err := bc.catalog.ListBooks(query)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":       books,
		"count":       len(books),
		"sort_method": query.Sort,
	})
}

// RedirectToIndex sends the old book list URL to the catalog page.
// GET /books
func (bc *BooksController) RedirectToIndex(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

// GetBook returns a single book with its author.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, ok := bc.loadBook(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBookPage describes the empty create form.
// GET /create_book
func (bc *BooksController) CreateBookPage(c *gin.Context) {
	bc.formPage(c, BookForm{})
}

// EditBookPage describes the edit form prefilled from the stored book.
// GET /edit_book/:id
func (bc *BooksController) EditBookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, ok := bc.loadBook(c, id)
	if !ok {
		return
	}
	bc.formPage(c, bookFormFromBook(book))
}

func (bc *BooksController) formPage(c *gin.Context, form BookForm) {
	authors, err := bc.authors.GetAllAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form":       bookFormFields,
		"input":      form.input(),
		"authors":    authors,
		"csrf_token": auth.GetCSRFToken(c),
	})
}

// CreateBook validates the form and inserts a new book.
// POST /books, POST /create_book
func (bc *BooksController) CreateBook(c *gin.Context) {
	var book entities.Book
	form, ok := bc.bindForm(c, &book)
	if !ok {
		return
	}

	err := bc.books.CreateBook(&book)
	bc.audit(c, entities.AuditEventCreate, book.ID, form.Title, err)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondDone(c, "/", http.StatusCreated, book)
}

// EditBook validates the form and overwrites an existing book.
// POST/PUT /books/:id, POST /edit_book/:id
func (bc *BooksController) EditBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, ok := bc.loadBook(c, id)
	if !ok {
		return
	}

	previousISBN := book.ISBN
	form, ok := bc.bindForm(c, book)
	if !ok {
		return
	}

	err := bc.books.UpdateBook(book)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	bc.audit(c, entities.AuditEventUpdate, id, form.Title, err)
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	if book.ISBN != previousISBN {
		bc.invalidateCover(c, id)
	}

	respondDone(c, "/", http.StatusOK, book)
}

// DeleteBook removes a book. Favourites that reference it are left in the
// sessions and drop out when the list is next resolved.
// POST /delete_book (form book_id), DELETE /books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	var (
		id uint
		ok bool
	)
	if c.Param("id") != "" {
		id, ok = parseIDParam(c, "id")
	} else {
		id, ok = parseFormID(c, "book_id")
	}
	if !ok {
		return
	}

	book, ok := bc.loadBook(c, id)
	if !ok {
		return
	}

	err := bc.books.DeleteBook(id)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	bc.audit(c, entities.AuditEventDelete, id, book.Title, err)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	bc.invalidateCover(c, id)

	respondDone(c, "/", http.StatusOK, SuccessResponse{Message: "book deleted", Data: gin.H{"id": id}})
}

// bindForm binds and validates the request into book. On failure it has
// already written the response.
func (bc *BooksController) bindForm(c *gin.Context, book *entities.Book) (BookForm, bool) {
	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		fields, ok := validation.Translate(err)
		if !ok {
			respondBadRequest(c, "invalid request body")
			return form, false
		}
		respondValidationErrors(c, fields, form.input())
		return form, false
	}

	fields, err := form.apply(book, bc.authors)
	if err != nil {
		respondInternalError(c, err, "validate book")
		return form, false
	}
	if len(fields) > 0 {
		respondValidationErrors(c, fields, form.input())
		return form, false
	}
	return form, true
}

func (bc *BooksController) loadBook(c *gin.Context, id uint) (*entities.Book, bool) {
	book, err := bc.books.GetBookByID(id)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "book")
		return nil, false
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return nil, false
	}
	return book, true
}

func (bc *BooksController) invalidateCover(c *gin.Context, bookID uint) {
	if bc.covers == nil {
		return
	}
	if err := bc.covers.InvalidateCover(bookID); err != nil {
		RequestLogger(c).Warn("Failed to invalidate cover", zap.Uint("book_id", bookID), zap.Error(err))
	}
}

func (bc *BooksController) audit(c *gin.Context, eventType entities.AuditEventType, bookID uint, title string, err error) {
	if bc.auditor == nil {
		return
	}
	bc.auditor.LogBookChange(auth.GetUserID(c), eventType, bookID, title, c.ClientIP(), err)
}
