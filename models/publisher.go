package models

import (
	"time"

	"gorm.io/gorm"
)

// Publisher prepares books for print. Optional on Book; deleting a
// publisher clears the reference on its books.
type Publisher struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Logo        string    `gorm:"type:varchar(500)" json:"logo,omitempty"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Books []Book `gorm:"foreignKey:PublisherID" json:"books,omitempty"`
}

// PrintingHouse physically prints books. It has no public page and
// therefore no slug.
type PrintingHouse struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Books []Book `gorm:"foreignKey:PrintingHouseID" json:"books,omitempty"`
}

func (Publisher) TableName() string {
	return "publishers"
}

func (PrintingHouse) TableName() string {
	return "printing_houses"
}

func (p *Publisher) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

func (ph *PrintingHouse) BeforeCreate(tx *gorm.DB) error {
	if ph.ID == "" {
		ph.ID = generateUUID()
	}
	return nil
}
