package handlers

import (
	"errors"
	"log"
	"math"

	"netvault/internal/services"

	"github.com/gin-gonic/gin"
)

// Success writes the standard success envelope.
func Success(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// Fail writes the standard error envelope.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// ValidationFailed writes a 422 envelope with the field->message map.
func ValidationFailed(c *gin.Context, fieldErrors services.ValidationErrors) {
	c.JSON(422, gin.H{
		"success": false,
		"error":   "Validation failed",
		"errors":  fieldErrors,
	})
}

// Paginated wraps a page of items with pagination metadata.
func Paginated(c *gin.Context, items any, page, perPage int, total int64) {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}

	Success(c, 200, "", gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"per_page":    perPage,
			"total":       total,
			"total_pages": totalPages,
			"has_next":    page < totalPages,
			"has_prev":    page > 1,
		},
	})
}

// FailFromError maps service errors onto the HTTP status taxonomy. Store and
// unexpected failures are logged with detail and surfaced opaquely.
func FailFromError(c *gin.Context, err error) {
	var fieldErrors services.ValidationErrors
	if errors.As(err, &fieldErrors) {
		ValidationFailed(c, fieldErrors)
		return
	}

	switch {
	case errors.Is(err, services.ErrConfigNotFound):
		Fail(c, 404, "Configuration not found")
	case errors.Is(err, services.ErrVersionNotFound):
		Fail(c, 404, "Version not found")
	case errors.Is(err, services.ErrTemplateNotFound):
		Fail(c, 404, "Template not found")
	case errors.Is(err, services.ErrUserNotFound):
		Fail(c, 404, "User not found")
	case errors.Is(err, services.ErrNotOwner):
		Fail(c, 403, err.Error())
	case errors.Is(err, services.ErrNotTemplate):
		Fail(c, 400, "This configuration is not a template")
	case errors.Is(err, services.ErrUsernameExists):
		Fail(c, 409, "Username already exists")
	case errors.Is(err, services.ErrEmailExists):
		Fail(c, 409, "Email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		Fail(c, 401, "Invalid username or password")
	case errors.Is(err, services.ErrAccountInactive):
		Fail(c, 401, "Account is inactive")
	case errors.Is(err, services.ErrInvalidToken):
		Fail(c, 401, "Invalid or expired token")
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		Fail(c, 500, "An unexpected error occurred. Please try again later.")
	}
}

func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
