package models

// Typed errors for the workflow rules. Services return these; the handler
// layer maps them to HTTP status codes.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// AuthorizationError means the actor is known but lacks permission for the
// entity or action.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// StateError means the operation is not legal in the entity's current
// lifecycle state.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func NewStateError(message string) error {
	return &StateError{Message: message}
}

// ConflictError means the operation lost a race to a concurrent request.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}

// SecurityError means a payment signature or credential check failed.
type SecurityError struct {
	Message string
}

func (e *SecurityError) Error() string { return e.Message }

func NewSecurityError(message string) error {
	return &SecurityError{Message: message}
}

// ExternalError means an outbound call to a collaborator (payment gateway)
// failed or timed out.
type ExternalError struct {
	Message string
}

func (e *ExternalError) Error() string { return e.Message }

func NewExternalError(message string) error {
	return &ExternalError{Message: message}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}
