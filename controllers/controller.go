package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"kitobxona_go/models"
	"kitobxona_go/services"
	"kitobxona_go/utils"
)

// pageParams reads page/limit query params with sane bounds.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// handleServiceError maps service-layer errors onto the response
// envelope. Unrecognized errors are reported as internal without
// leaking their text.
func handleServiceError(c *gin.Context, err error) {
	var invalidTransition *models.ErrInvalidTransition
	var validationErr *utils.ValidationError

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyExists),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrHasBooks),
		errors.Is(err, services.ErrBookInOrders):
		utils.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrEmptyOrder):
		utils.Error(c, utils.CodeError, err.Error())
	case errors.As(err, &invalidTransition):
		utils.Error(c, utils.CodeError, invalidTransition.Error())
	case errors.As(err, &validationErr):
		utils.ErrorWithData(c, utils.CodeValidationError, "", validationErr.Errors)
	default:
		utils.InternalError(c, "request could not be processed")
	}
}

// bindError reports a binding/validation failure on the request body.
func bindError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		utils.ErrorWithData(c, utils.CodeValidationError, "", validationErr.Errors)
		return
	}
	utils.Error(c, utils.CodeError, err.Error())
}
