package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errTasksNotArray      = errors.New("tasks must be an array")
)

const serverErrorMessage = "Server error"

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
	c.AbortWithStatusJSON(err.Code, gin.H{"message": err.Message})
}

func newServerError() apiError {
	return newAPIError(http.StatusInternalServerError, serverErrorMessage)
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// newServiceError maps a service error to its response. Anything unknown is
// reported as a generic server error.
func newServiceError(err error) apiError {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return newBadRequestError(verr.Message)
	case errors.Is(err, services.ErrTaskNotFound):
		return newAPIError(http.StatusNotFound, "Task not found")
	case errors.Is(err, services.ErrTaskForbidden):
		return newAPIError(http.StatusForbidden, "Not authorized to modify this task")
	case errors.Is(err, services.ErrUserNotFound):
		return newAPIError(http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		return newUnauthorizedError("Invalid email or password")
	case errors.Is(err, services.ErrUserAlreadyExists):
		return newConflictError("User already exists")
	default:
		return newServerError()
	}
}
