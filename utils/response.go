package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a standardized success response
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Created sends a standardized created response (201)
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// SuccessWithPagination sends a paginated success response
func SuccessWithPagination(c *gin.Context, message string, data interface{}, total int64, page, perPage int) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"data":    data,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"per_page":    perPage,
			"total_pages": (total + int64(perPage) - 1) / int64(perPage),
		},
	})
}

// RespondError writes err using the status and reason of the AppError in its chain.
// Anything else is logged and reported as an internal error.
func RespondError(c *gin.Context, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		LogError("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		appErr = ErrInternal
	}
	if appErr.Code >= http.StatusInternalServerError {
		LogError("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	response := StandardResponse{
		Status:  "error",
		Message: appErr.Message,
		Data:    gin.H{"error": appErr.Reason},
	}
	if appErr.Kind == KindGateway && appErr.Err != nil {
		response.Data = gin.H{"error": appErr.Reason, "detail": appErr.Err.Error()}
	}
	c.AbortWithStatusJSON(appErr.Code, response)
}
