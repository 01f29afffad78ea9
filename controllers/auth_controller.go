package controllers

import (
	"github.com/gin-gonic/gin"

	"kitobxona_go/services"
	"kitobxona_go/utils"
)

// AuthController handles staff login and account creation.
type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	result, err := ac.authService.Login(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, result)
}

// Register is itself behind staff auth: only a logged-in staff member
// can create another account.
func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterStaffRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	staff, err := ac.authService.RegisterStaff(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, staff)
}
