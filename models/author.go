package models

import (
	"time"

	"gorm.io/gorm"
)

// Author is a book author. Books reference authors with a
// restrict-on-delete rule: an author with books cannot be removed.
type Author struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	Photo     string    `gorm:"type:varchar(500)" json:"photo,omitempty"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Books []Book `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
}

// Translator of a book. Deleting a translator clears the reference on
// its books instead of failing.
type Translator struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	Photo     string    `gorm:"type:varchar(500)" json:"photo,omitempty"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Books []Book `gorm:"foreignKey:TranslatorID" json:"books,omitempty"`
}

func (Author) TableName() string {
	return "authors"
}

func (Translator) TableName() string {
	return "translators"
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = generateUUID()
	}
	return nil
}

func (t *Translator) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = generateUUID()
	}
	return nil
}
