package tasks

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Crixpsitos/lazytodo/internal/model"
)

const (
	MinTitleLength       = 3
	MaxTitleLength       = 50
	MaxDescriptionLength = 200
)

var (
	// ErrValidation matches every rejected add or update.
	ErrValidation = errors.New("invalid task")

	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooShort      = errors.New("title too short")
	ErrTitleTooLong       = errors.New("title too long")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidPriority    = errors.New("invalid priority")
)

// ValidationError describes why a field was rejected. Its message is meant
// for the person who typed the value.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// NormalizeTitle trims title and checks its length in characters.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	length := utf8.RuneCountInString(trimmed)
	switch {
	case length == 0:
		return "", &ValidationError{Field: "title", Message: "Title is required", Err: ErrTitleRequired}
	case length < MinTitleLength:
		return "", &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("Title must be at least %d characters", MinTitleLength),
			Err:     ErrTitleTooShort,
		}
	case length > MaxTitleLength:
		return "", &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("Title must be at most %d characters (got %d)", MaxTitleLength, length),
			Err:     ErrTitleTooLong,
		}
	}
	return trimmed, nil
}

// NormalizeDescription trims description; empty is allowed.
func NormalizeDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if length := utf8.RuneCountInString(trimmed); length > MaxDescriptionLength {
		return "", &ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("Description must be at most %d characters (got %d)", MaxDescriptionLength, length),
			Err:     ErrDescriptionTooLong,
		}
	}
	return trimmed, nil
}

// NormalizePriority maps the empty priority to medium and rejects unknown values.
func NormalizePriority(priority model.Priority) (model.Priority, error) {
	parsed, err := model.ParsePriority(string(priority))
	if err != nil {
		return "", &ValidationError{
			Field:   "priority",
			Message: fmt.Sprintf("Priority must be one of low, medium, high (got %q)", priority),
			Err:     ErrInvalidPriority,
		}
	}
	return parsed, nil
}
