package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-tasks/internal/services"
)

var (
	errInvalidRequestBody  = errors.New("invalid request body")
	errRequestBodyTooLarge = errors.New("request body too large")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	if err.Code >= http.StatusInternalServerError {
		c.AbortWithStatusJSON(err.Code, gin.H{
			"success": false,
			"message": "server error",
		})
		return
	}
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newInternalError() apiError {
	return newAPIError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// newServiceError maps a service error onto the response sent to the
// client. Unknown errors never leak their message.
func newServiceError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrValidation):
		return newBadRequestError(err.Error())
	case errors.Is(err, services.ErrNotFound):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrConflict):
		return newConflictError(err.Error())
	default:
		return newInternalError()
	}
}
