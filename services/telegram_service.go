package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kitobxona_go/models"
	"kitobxona_go/utils"
)

// TelegramService backs the mini-app endpoints: registration keyed by
// telegram_id, existence checks, profiles and feedback.
type TelegramService struct {
	db *gorm.DB
}

func NewTelegramService(db *gorm.DB) *TelegramService {
	return &TelegramService{db: db}
}

// RegisterUserRequest is the mini-app registration payload.
type RegisterUserRequest struct {
	TelegramID  int64  `json:"telegram_id" binding:"required"`
	FullName    string `json:"full_name" binding:"required,max=255"`
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
	Username    string `json:"username" binding:"omitempty,max=255"`
}

// FeedbackRequest is a feedback submission from a registered user.
type FeedbackRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// RegisterUser creates a mini-app user. A telegram_id can register
// only once.
func (ts *TelegramService) RegisterUser(req *RegisterUserRequest) (*models.TelegramUser, error) {
	if !utils.ValidatePhone(req.PhoneNumber) {
		return nil, fmt.Errorf("invalid phone number %q", req.PhoneNumber)
	}

	var existing models.TelegramUser
	err := ts.db.First(&existing, "telegram_id = ?", req.TelegramID).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.TelegramUser{
		TelegramID:  req.TelegramID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Username:    req.Username,
		IsActive:    true,
	}
	if err := ts.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("register telegram user: %w", err)
	}
	return &user, nil
}

// CheckUser reports whether a telegram_id is registered. A miss is a
// normal answer, not an error.
func (ts *TelegramService) CheckUser(telegramID int64) (bool, *models.TelegramUser, error) {
	var user models.TelegramUser
	err := ts.db.First(&user, "telegram_id = ?", telegramID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, &user, nil
}

// GetProfile loads the full profile payload for a registered user,
// including their feedback count.
func (ts *TelegramService) GetProfile(telegramID int64) (*models.TelegramUserProfile, error) {
	var user models.TelegramUser
	if err := ts.db.First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		return nil, notFoundOr(err, "telegram user")
	}

	var feedbacks int64
	if err := ts.db.Model(&models.Feedback{}).Where("user_id = ?", user.ID).Count(&feedbacks).Error; err != nil {
		return nil, err
	}

	profile := user.ToProfile(feedbacks)
	return &profile, nil
}

// CreateFeedback stores a feedback message for a registered user.
func (ts *TelegramService) CreateFeedback(req *FeedbackRequest) (*models.FeedbackResponse, error) {
	var user models.TelegramUser
	err := ts.db.First(&user, "telegram_id = ?", req.TelegramID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	feedback := models.Feedback{
		UserID:  user.ID,
		Message: req.Message,
	}
	if err := ts.db.Create(&feedback).Error; err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	resp := feedback.ToResponse(&user)
	return &resp, nil
}

// GetFeedbacks lists feedback newest first for the admin console.
func (ts *TelegramService) GetFeedbacks(page, limit int) ([]models.Feedback, int64, error) {
	var total int64
	if err := ts.db.Model(&models.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedbacks []models.Feedback
	err := ts.db.
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&feedbacks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list feedbacks: %w", err)
	}
	return feedbacks, total, nil
}

// GetUsers lists registered telegram users newest first.
func (ts *TelegramService) GetUsers(page, limit int) ([]models.TelegramUser, int64, error) {
	var total int64
	if err := ts.db.Model(&models.TelegramUser{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.TelegramUser
	err := ts.db.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list telegram users: %w", err)
	}
	return users, total, nil
}
