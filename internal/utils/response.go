// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pimstack/pim-backend/internal/apperrors"
)

// APIResponse is the uniform envelope every endpoint answers with. Errors
// carry a human-readable message plus the numeric code mirroring the HTTP
// status.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    int         `json:"code,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessMessageResponse(c *gin.Context, message string, data interface{}) {
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

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Code:    statusCode,
	})
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func MethodNotAllowedResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusMethodNotAllowed, "Method not allowed")
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, message)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// HandleError translates a service error into the envelope. This is the
// only place where the error taxonomy meets HTTP; services never see status
// codes and raw store errors never reach the client.
func HandleError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindStoreUnavailable {
			logrus.WithError(appErr).WithField("path", c.Request.URL.Path).Error("Request failed")
			ErrorResponse(c, appErr.HTTPStatus(), appErr.Message)
			return
		}
		ErrorResponse(c, appErr.HTTPStatus(), appErr.Message)
		return
	}

	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unexpected error")
	InternalErrorResponse(c, "")
}

func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("user_role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}
