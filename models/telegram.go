package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// tashkentTZ is the shop's local timezone used when formatting
// registration and feedback timestamps for the mini-app.
var tashkentTZ = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		return time.FixedZone("UZT", 5*60*60)
	}
	return loc
}()

// FormatLocalTime renders a timestamp in the shop's timezone as
// "dd.mm.yyyy hh:mm".
func FormatLocalTime(t time.Time) string {
	return t.In(tashkentTZ).Format("02.01.2006 15:04")
}

// TelegramUser is a mini-app registration keyed by the unique
// telegram_id.
type TelegramUser struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TelegramID  int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FullName    string    `gorm:"type:varchar(255);not null" json:"full_name"`
	PhoneNumber string    `gorm:"type:varchar(17);not null" json:"phone_number"`
	Username    string    `gorm:"type:varchar(255)" json:"username,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Feedbacks []Feedback `gorm:"foreignKey:UserID" json:"feedbacks,omitempty"`
}

// Feedback is a free-form message left by a registered telegram user.
type Feedback struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`

	User TelegramUser `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TelegramUser) TableName() string {
	return "telegram_users"
}

func (Feedback) TableName() string {
	return "feedbacks"
}

func (u *TelegramUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

// TelegramLink is the t.me profile link, empty when the user has no
// username.
func (u *TelegramUser) TelegramLink() string {
	if u.Username == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s", u.Username)
}

// TelegramUserProfile is the full profile payload returned by
// GET /api/user/:telegram_id/.
type TelegramUserProfile struct {
	ID               string `json:"id"`
	TelegramID       int64  `json:"telegram_id"`
	Username         string `json:"username,omitempty"`
	FullName         string `json:"full_name"`
	PhoneNumber      string `json:"phone_number"`
	IsActive         bool   `json:"is_active"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	TelegramLink     string `json:"telegram_link,omitempty"`
	RegistrationDate string `json:"registration_date"`
	FeedbacksCount   int64  `json:"feedbacks_count"`
}

// ToProfile builds the profile payload with the locally formatted
// registration date.
func (u *TelegramUser) ToProfile(feedbacksCount int64) TelegramUserProfile {
	return TelegramUserProfile{
		ID:               u.ID,
		TelegramID:       u.TelegramID,
		Username:         u.Username,
		FullName:         u.FullName,
		PhoneNumber:      u.PhoneNumber,
		IsActive:         u.IsActive,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        u.UpdatedAt.Format(time.RFC3339),
		TelegramLink:     u.TelegramLink(),
		RegistrationDate: FormatLocalTime(u.CreatedAt),
		FeedbacksCount:   feedbacksCount,
	}
}

// FeedbackResponse echoes the author's summary next to the stored
// message, as the mini-app shows it right after submitting.
type FeedbackResponse struct {
	ID             string `json:"id"`
	UserFullName   string `json:"user_full_name"`
	UserPhone      string `json:"user_phone"`
	UserUsername   string `json:"user_username,omitempty"`
	UserTelegramID int64  `json:"user_telegram_id"`
	Message        string `json:"message"`
	CreatedAt      string `json:"created_at"`
	CreatedDate    string `json:"created_date"`
}

func (f *Feedback) ToResponse(user *TelegramUser) FeedbackResponse {
	return FeedbackResponse{
		ID:             f.ID,
		UserFullName:   user.FullName,
		UserPhone:      user.PhoneNumber,
		UserUsername:   user.Username,
		UserTelegramID: user.TelegramID,
		Message:        f.Message,
		CreatedAt:      f.CreatedAt.Format(time.RFC3339),
		CreatedDate:    FormatLocalTime(f.CreatedAt),
	}
}
