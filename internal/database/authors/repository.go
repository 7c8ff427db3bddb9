// Package authors provides read access to authors and their books.
// Authors are maintained out of band (see the seed command); the HTTP layer
// never writes them.
package authors

import (
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllAuthors returns all authors ordered by name.
func (r *Repository) GetAllAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("last_name ASC, first_name ASC, id ASC").Find(&authors).Error
	return authors, err
}

// GetAuthorByID retrieves an author together with their books.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Preload("Books", func(db *gorm.DB) *gorm.DB {
		return db.Order("popularity DESC, id ASC")
	}).First(&author, id).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &author, nil
}

// AuthorExists reports whether an author with the id is stored.
func (r *Repository) AuthorExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetOrCreateAuthor finds an author by full name or inserts a new one.
func (r *Repository) GetOrCreateAuthor(firstName, lastName, bio string) (*entities.Author, error) {
	author := entities.Author{FirstName: firstName, LastName: lastName}
	err := r.db.Where("first_name = ? AND last_name = ?", firstName, lastName).
		Attrs(entities.Author{Bio: bio}).
		FirstOrCreate(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}
