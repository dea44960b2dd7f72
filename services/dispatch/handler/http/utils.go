package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the standard success body
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BadRequestResponse returns a standard bad request response
func BadRequestResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// ConflictResponse returns a standard conflict response
func ConflictResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// InternalErrorResponse returns a standard internal error response
func InternalErrorResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// SuccessResponseWithData returns a standard success response
func SuccessResponseWithData(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
