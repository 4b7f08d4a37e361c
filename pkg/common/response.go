package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope returned by every endpoint
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError is the serialized error payload
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// ForcedLogout tells the SPA to clear credentials and redirect to login
	ForcedLogout bool `json:"forced_logout,omitempty"`
}

// SuccessResponse writes a 200 with the data envelope
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// ErrorResponse writes a plain error with the given status
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: CodeApplication, Message: message},
	})
}

// AppErrorResponse writes a classified AppError. Unauthorized errors additionally
// carry the forced-logout flag the SPA acts on.
func AppErrorResponse(c *gin.Context, err *AppError) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:         err.Code,
			Message:      err.Message,
			ForcedLogout: err.Code == CodeUnauthorized,
		},
	})
}

// RespondError routes any error through the envelope, classifying unknown errors
// as internal
func RespondError(c *gin.Context, err error) {
	if appErr, ok := AsAppError(err); ok {
		AppErrorResponse(c, appErr)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "erro interno")
}
