package model

import (
	"errors"
	"fmt"
	"strings"
)

// Todo is the domain model for a todo entry.
// The JSON shape is the persisted storage format; keep it stable.
type Todo struct {
	ID          int64    `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Completed   bool     `json:"completed" yaml:"completed"`
}

// Input is what add and update operate on.
type Input struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
}

// InputOf returns the editable fields of t.
func InputOf(t Todo) Input {
	return Input{Title: t.Title, Description: t.Description, Priority: t.Priority}
}

// ErrInvalidInput is wrapped by every *ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Validate checks the fields an add or update needs.
// Title must be non-blank, priority must be a known level.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "cannot be empty"}
	}
	if !in.Priority.Valid() {
		if in.Priority == "" {
			return &ValidationError{Field: "priority", Reason: "is required"}
		}
		return &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown level %q", string(in.Priority))}
	}
	return nil
}

// Normalize trims title and description.
func (in Input) Normalize() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}
