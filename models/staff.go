package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff is an admin-console account. Password stores a bcrypt hash and
// is never serialized.
type Staff struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}
