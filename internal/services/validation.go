package services

import (
	"strings"
	"unicode/utf8"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
	minUsernameLength    = 3
	maxUsernameLength    = 30
	minPasswordLength    = 6
)

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", newValidationError("title", "Please add a title")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", newValidationError("title", "Title cannot be more than 100 characters")
	}
	return title, nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return "", newValidationError("description", "Description cannot be more than 500 characters")
	}
	return description, nil
}

func validateStatus(status string) error {
	if !models.IsValidStatus(status) {
		return newValidationError("status", "Status must be one of: todo, in-progress, done")
	}
	return nil
}

func validatePosition(position int) error {
	if position < 0 {
		return newValidationError("position", "Position must be a non-negative integer")
	}
	return nil
}

func validatePlacement(p models.Placement) error {
	if strings.TrimSpace(p.ID) == "" {
		return newValidationError("id", "Each task must have an id")
	}
	if err := validateStatus(p.Status); err != nil {
		return err
	}
	return validatePosition(p.Position)
}

func validateRegistration(params RegisterParams) (RegisterParams, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = normalizeEmail(params.Email)

	n := utf8.RuneCountInString(params.Username)
	if n < minUsernameLength || n > maxUsernameLength {
		return params, newValidationError("username", "Username must be between 3 and 30 characters")
	}
	if params.Email == "" || !strings.Contains(params.Email, "@") {
		return params, newValidationError("email", "Please add a valid email")
	}
	if len(params.Password) < minPasswordLength {
		return params, newValidationError("password", "Password must be at least 6 characters")
	}
	return params, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
