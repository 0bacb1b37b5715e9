package utils

import (
	"errors"
	"net/http"

	"campusfind/models"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string, err interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Error:   err,
	})
}

func BadRequestResponse(c *gin.Context, message string, err interface{}) {
	ErrorResponse(c, http.StatusBadRequest, message, err)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, message, nil)
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message, nil)
}

func PayloadTooLargeResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusRequestEntityTooLarge, message, nil)
}

func TooManyRequestsResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusTooManyRequests, message, nil)
}

// DomainErrorResponse maps the failure taxonomy to HTTP statuses. Validation
// and authorization failures are reported as-is; infrastructure failures come
// back retryable with the underlying detail so the user can try again.
func DomainErrorResponse(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, models.ErrUnauthenticated):
		UnauthorizedResponse(c, err.Error())
	case errors.Is(err, models.ErrForbidden):
		ForbiddenResponse(c, err.Error())
	case errors.Is(err, models.ErrNotFound):
		NotFoundResponse(c, err.Error())
	case errors.Is(err, models.ErrUploadFailed):
		ErrorResponse(c, http.StatusBadGateway, "image upload failed, please retry", err.Error())
	case errors.Is(err, models.ErrStoreUnavailable):
		ErrorResponse(c, http.StatusServiceUnavailable, "item store unavailable, please retry", err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
