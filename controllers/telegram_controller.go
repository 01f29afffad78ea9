package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kitobxona_go/services"
	"kitobxona_go/utils"
)

// TelegramController serves the mini-app endpoints. These return the
// fixed body shapes the bot client expects instead of the admin
// envelope.
type TelegramController struct {
	telegramService *services.TelegramService
}

func NewTelegramController(telegramService *services.TelegramService) *TelegramController {
	return &TelegramController{telegramService: telegramService}
}

// CreateUser handles POST /api/telegram/user/create/.
func (tc *TelegramController) CreateUser(c *gin.Context) {
	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TelegramID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "telegram_id must be positive"})
		return
	}

	user, err := tc.telegramService.RegisterUser(&req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user with this telegram_id already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// CheckUser handles GET /api/check-user/:telegram_id/. A missing user
// is a 200 with exists=false, never an error.
func (tc *TelegramController) CheckUser(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "telegram_id must be an integer"})
		return
	}

	exists, user, err := tc.telegramService.CheckUser(telegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request could not be processed"})
		return
	}
	if !exists {
		c.JSON(http.StatusOK, gin.H{"exists": false, "telegram_id": telegramID})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists":       true,
		"telegram_id":  telegramID,
		"username":     user.Username,
		"full_name":    user.FullName,
		"phone_number": user.PhoneNumber,
	})
}

// GetUser handles GET /api/user/:telegram_id/.
func (tc *TelegramController) GetUser(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "telegram_id must be an integer"})
		return
	}

	profile, err := tc.telegramService.GetProfile(telegramID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request could not be processed"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListUsers lists registered mini-app users for the admin console.
func (tc *TelegramController) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := tc.telegramService.GetUsers(page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, users, total, page, limit)
}

// ListFeedbacks lists feedback for the admin console.
func (tc *TelegramController) ListFeedbacks(c *gin.Context) {
	page, limit := pageParams(c)
	feedbacks, total, err := tc.telegramService.GetFeedbacks(page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, feedbacks, total, page, limit)
}

// CreateFeedback handles POST /api/feedback/create/.
func (tc *TelegramController) CreateFeedback(c *gin.Context) {
	var req services.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := tc.telegramService.CreateFeedback(&req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user with this telegram_id is not registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}
