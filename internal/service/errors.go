package service

import (
	"errors"
	"fmt"
)

// Common service errors. Authorization failures surface as domain.ErrUnauthenticated
// and domain.ErrForbidden; everything else a workflow can report is part of its result.
var (
	// ErrNilDependency is returned by constructors when a required collaborator is missing.
	ErrNilDependency = errors.New("required dependency is nil")
)

// ServiceError is a custom error type for service-level failures that are
// returned to the caller rather than folded into a result.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
