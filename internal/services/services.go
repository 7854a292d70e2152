package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskForbidden      = errors.New("not authorized to access this task")
)

// ValidationError reports the first violated input rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

type AuthService interface {
	// Register creates a user with the given credentials and issues an
	// access token for it.
	//
	// It returns ErrUserAlreadyExists if the email is taken.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates the user by email and password.
	//
	// It returns ErrInvalidCredentials if the user doesn't exist or the
	// password doesn't match.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// GetUser returns ErrUserNotFound if no user has the given ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired. The subject
	// is the user ID.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type TaskService interface {
	// CreateTask appends the task to the end of its status group.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasks returns the user's tasks ordered by position, newest first
	// among equal positions.
	GetTasks(ctx context.Context, userID string) ([]models.Task, error)

	// UpdateTask applies a partial update. A status change without an
	// explicit position keeps the current position.
	//
	// It returns ErrTaskNotFound or ErrTaskForbidden before changing
	// anything.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// ReorderTasks applies every placement as given once all referenced
	// tasks are known to belong to the user, and returns the refreshed
	// list.
	ReorderTasks(ctx context.Context, params ReorderTasksParams) ([]models.Task, error)

	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User                 *models.User
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type CreateTaskParams struct {
	UserID string
	models.TaskDraft
}

type UpdateTaskParams struct {
	ID     string
	UserID string
	models.TaskPatch
}

type ReorderTasksParams struct {
	UserID     string
	Placements []models.Placement
}

type DeleteTaskParams struct {
	ID     string
	UserID string
}
