package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope returned by the admin API. The telegram
// mini-app endpoints return their own fixed body shapes instead.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PageResponse wraps paginated list data.
type PageResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// Business status codes.
const (
	CodeSuccess             = 20000
	CodeError               = 40000
	CodeUnauthorized        = 40100
	CodeForbidden           = 40300
	CodeNotFound            = 40400
	CodeConflict            = 40900
	CodeValidationError     = 42200
	CodeInternalServerError = 50000
)

var codeMessages = map[int]string{
	CodeSuccess:             "ok",
	CodeError:               "request failed",
	CodeUnauthorized:        "unauthorized",
	CodeForbidden:           "forbidden",
	CodeNotFound:            "not found",
	CodeConflict:            "already exists",
	CodeValidationError:     "validation failed",
	CodeInternalServerError: "internal server error",
}

// GetCodeMessage returns the default message for a business code.
func GetCodeMessage(code int) string {
	if msg, exists := codeMessages[code]; exists {
		return msg
	}
	return "unknown error"
}

var codeHTTPStatus = map[int]int{
	CodeSuccess:             http.StatusOK,
	CodeError:               http.StatusBadRequest,
	CodeUnauthorized:        http.StatusUnauthorized,
	CodeForbidden:           http.StatusForbidden,
	CodeNotFound:            http.StatusNotFound,
	CodeConflict:            http.StatusConflict,
	CodeValidationError:     http.StatusUnprocessableEntity,
	CodeInternalServerError: http.StatusInternalServerError,
}

// Success writes a 200 envelope with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: GetCodeMessage(CodeSuccess),
		Data:    data,
	})
}

// Created writes a 201 envelope with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: GetCodeMessage(CodeSuccess),
		Data:    data,
	})
}

// SuccessWithMessage writes a 200 envelope with a custom message.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope; the HTTP status is derived from the
// business code.
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = GetCodeMessage(code)
	}
	status, ok := codeHTTPStatus[code]
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithData writes an error envelope carrying extra detail, e.g.
// per-field validation messages.
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	if message == "" {
		message = GetCodeMessage(code)
	}
	status, ok := codeHTTPStatus[code]
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Unauthorized writes a 401 envelope.
func Unauthorized(c *gin.Context, message string) {
	Error(c, CodeUnauthorized, message)
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	Error(c, CodeNotFound, message)
}

// Conflict writes a 409 envelope for uniqueness violations.
func Conflict(c *gin.Context, message string) {
	Error(c, CodeConflict, message)
}

// InternalError writes a 500 envelope with a detail string, never
// internal state.
func InternalError(c *gin.Context, message string) {
	Error(c, CodeInternalServerError, message)
}

// Paginate writes a paginated 200 envelope.
func Paginate(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, PageResponse{
		Code:    CodeSuccess,
		Message: GetCodeMessage(CodeSuccess),
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}
