package entities

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("account already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError marks a request that is well-formed but violates a
// business precondition. Handlers translate it to a 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// PlanLimitError is returned when a tenant hits the widget ceiling of
// its subscription plan. Handlers translate it to a 403.
type PlanLimitError struct {
	Plan string
}

func (e *PlanLimitError) Error() string {
	return fmt.Sprintf("Widget limit reached for %s plan. Upgrade to create more widgets.", e.Plan)
}
