package http

import (
	"context"

	"github.com/mrlokans/catalog/internal/entities"
)

// Each controller depends on the narrow interface below that covers what it
// actually calls. The database repositories satisfy them; see
// internal/interfaces for the compile-time checks.

// BookStore provides the book reads and writes used by BooksController.
type BookStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	CreateBook(book *entities.Book) error
	UpdateBook(book *entities.Book) error
	DeleteBook(id uint) error
}

// AuthorStore provides read access to authors.
type AuthorStore interface {
	GetAllAuthors() ([]entities.Author, error)
	GetAuthorByID(id uint) (*entities.Author, error)
	AuthorExists(id uint) (bool, error)
}

// BookAuditor records staff changes to the catalog.
type BookAuditor interface {
	LogBookChange(userID uint, eventType entities.AuditEventType, bookID uint, title, ipAddr string, err error)
}

// AuditReader pages through recorded audit events.
type AuditReader interface {
	GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// Favorites is the session-scoped favourites list.
type Favorites interface {
	EnsureInitialized(ctx context.Context)
	Add(ctx context.Context, bookID string)
	Remove(ctx context.Context, bookID string)
	IDs(ctx context.Context) []string
	List(ctx context.Context) ([]entities.Book, error)
}

// CoverInvalidator removes cached cover images for a book.
type CoverInvalidator interface {
	InvalidateCover(bookID uint) error
}

// CoverSource returns a local file with the cover image of a book.
type CoverSource interface {
	CoverInvalidator
	GetCover(ctx context.Context, bookID uint, isbn string) (string, error)
}
