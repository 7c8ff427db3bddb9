package entities

import "time"

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:128" json:"first_name"`
	LastName  string    `gorm:"index;size:128" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	Books     []Book    `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is the author's name as shown in listings.
func (a Author) DisplayName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

type Book struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"index;size:255" json:"title"`
	AuthorID   uint      `gorm:"index" json:"author_id"`
	Author     *Author   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ISBN       string    `gorm:"size:17" json:"isbn"`
	Popularity int       `gorm:"index;default:0" json:"popularity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
