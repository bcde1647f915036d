package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbidden indicates the caller may not mutate the resource.
	ErrForbidden = errors.New("not authorized")
	// ErrInvalidLogin indicates an unknown email or a wrong password. The two
	// cases are deliberately indistinguishable to callers.
	ErrInvalidLogin = errors.New("invalid email or password")
)

// Entity names used in NotFoundError.
const (
	EntityUser  = "user"
	EntityVideo = "video"
)

// NotFoundError reports that a required entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	if e.Entity == "" {
		return "not found"
	}
	return strings.ToUpper(e.Entity[:1]) + e.Entity[1:] + " not found"
}

// IsNotFound reports whether err is a NotFoundError for the given entity.
func IsNotFound(err error, entity string) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Entity == entity
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// PartialFailureError reports a multi-record operation whose first write
// committed while a follow-up write did not.
type PartialFailureError struct {
	Op  string
	Err error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s partially applied: %v", e.Op, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
