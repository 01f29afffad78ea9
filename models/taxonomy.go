package models

import (
	"time"

	"gorm.io/gorm"
)

// Genre groups books by literary genre. Name and slug are unique;
// referenced books block deletion.
type Genre struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Image       string    `gorm:"type:varchar(500)" json:"image,omitempty"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Books []Book `gorm:"foreignKey:GenreID" json:"books,omitempty"`
}

// Category is the merchandising taxonomy, parallel to Genre.
type Category struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Image       string    `gorm:"type:varchar(500)" json:"image,omitempty"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Books []Book `gorm:"foreignKey:CategoryID" json:"books,omitempty"`
}

func (Genre) TableName() string {
	return "genres"
}

func (Category) TableName() string {
	return "categories"
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = generateUUID()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}
