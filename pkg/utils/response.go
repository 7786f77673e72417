package utils

import "github.com/gin-gonic/gin"

// Response is the envelope every API endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// ErrorResponseWithCode additionally carries a machine-readable error code.
func ErrorResponseWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}
