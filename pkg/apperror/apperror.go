// Package apperror defines the error taxonomy shared by the policy, workflow
// and handler layers. Handlers map these onto HTTP responses via resputil;
// nothing below the HTTP layer knows about status codes.
package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmo-lab/projecthub/dao/model"
)

var (
	// ErrAuthentication covers invalid, missing or expired credentials.
	// Terminal; the caller needs new credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization means the identity is valid but the visibility policy
	// denies the operation. Never retried automatically.
	ErrAuthorization = errors.New("not enough permissions")

	// ErrValidation marks malformed input the caller must fix.
	ErrValidation = errors.New("invalid input")
)

// NotFoundError reports a missing project or sub-document parent.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidTransitionError carries the current status and the full allowed set
// so the caller can self-correct.
type InvalidTransitionError struct {
	Current   model.ProjectStatus
	Requested model.ProjectStatus
	Allowed   []model.ProjectStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	if len(allowed) == 0 {
		return fmt.Sprintf("cannot transition from %s to %s: %s is terminal", e.Current, e.Requested, e.Current)
	}
	return fmt.Sprintf("cannot transition from %s to %s. Allowed: %s",
		e.Current, e.Requested, strings.Join(allowed, ", "))
}

// ConflictError reports a concurrent write that lost the race. The caller
// should re-read and retry with fresh state.
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string {
	return e.Resource + " was modified concurrently, retry with fresh state"
}

// Conflict builds a ConflictError for the named resource.
func Conflict(resource string) error {
	return &ConflictError{Resource: resource}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
