// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	all, err := repo.GetAllBooks()
//	favourites, err := repo.GetBooksByIDs([]uint{1, 2})
package books

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllBooks returns every book with its author, in id order.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Author").Order("id ASC").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a book with its author.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Preload("Author").First(&book, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &book, nil
}

// GetBooksByIDs returns the books whose ids are in the given set, in id order.
// Ids with no matching row are skipped; duplicates in ids yield one book.
func (r *Repository) GetBooksByIDs(ids []uint) ([]entities.Book, error) {
	books := []entities.Book{}
	if len(ids) == 0 {
		return books, nil
	}
	err := r.db.Preload("Author").Where("id IN ?", ids).Order("id ASC").Find(&books).Error
	return books, err
}

// CreateBook inserts a book and reloads it with its author.
func (r *Repository) CreateBook(book *entities.Book) error {
	if err := r.db.Omit("Author").Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return r.db.Preload("Author").First(book, book.ID).Error
}

// UpdateBook overwrites the editable fields of an existing book.
func (r *Repository) UpdateBook(book *entities.Book) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":      book.Title,
		"author_id":  book.AuthorID,
		"isbn":       book.ISBN,
		"popularity": book.Popularity,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return r.db.Preload("Author").First(book, book.ID).Error
}

// DeleteBook removes a book. Nothing else references books in storage, so
// there is no cascade.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// CountBooks returns the number of books in the catalog.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
