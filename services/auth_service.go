package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kitobxona_go/config"
	"kitobxona_go/models"
)

// AuthService authenticates admin-console staff and mints their JWTs.
type AuthService struct {
	db  *gorm.DB
	jwt *config.JWTService
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db, jwt: config.GetJWTService()}
}

// LoginRequest is the staff login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterStaffRequest creates a new staff account. The endpoint is
// itself behind staff auth, so only existing staff can mint accounts.
type RegisterStaffRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResult carries the token and the authenticated account.
type LoginResult struct {
	Token string        `json:"token"`
	Staff *models.Staff `json:"staff"`
}

// Login verifies the credentials and returns a signed token. Wrong
// email and wrong password are indistinguishable to the caller.
func (as *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var staff models.Staff
	err := as.db.First(&staff, "email = ? AND is_active = ?", req.Email, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := as.jwt.GenerateToken(staff.ID, staff.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	now := time.Now()
	as.db.Model(&staff).Update("last_login", now)
	staff.LastLogin = &now

	return &LoginResult{Token: token, Staff: &staff}, nil
}

// RegisterStaff creates a staff account with a bcrypt-hashed password.
func (as *AuthService) RegisterStaff(req *RegisterStaffRequest) (*models.Staff, error) {
	var count int64
	if err := as.db.Model(&models.Staff{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	staff := models.Staff{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
		IsActive: true,
	}
	if err := as.db.Create(&staff).Error; err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	return &staff, nil
}
