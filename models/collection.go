package models

import (
	"time"

	"gorm.io/gorm"
)

// Collection is a curated, ordered grouping of books for merchandising.
// Display ordering is ascending Order, ties broken by newest first.
// Toggling IsActive has no side effects on member books.
type Collection struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CoverImage  string    `gorm:"type:varchar(500)" json:"cover_image,omitempty"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	Order       int       `gorm:"column:display_order;default:0;index" json:"order"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Books []Book `gorm:"many2many:collection_books" json:"books,omitempty"`
}

func (Collection) TableName() string {
	return "collections"
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

// BooksCount is the size of the collection's book set.
func (c *Collection) BooksCount() int {
	return len(c.Books)
}

// CollectionResponse carries the collection with its member count and
// aggregate stats over the member books.
type CollectionResponse struct {
	Collection
	BooksCount int       `json:"books_count"`
	Stats      BookStats `json:"stats"`
}

func (c *Collection) ToResponse() CollectionResponse {
	return CollectionResponse{
		Collection: *c,
		BooksCount: c.BooksCount(),
		Stats:      AggregateStats(c.Books),
	}
}
