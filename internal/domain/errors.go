package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRemoteUnavailable  = errors.New("remote store unavailable")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrPartialWrite       = errors.New("partial write")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotFound           = errors.New("not found")
	ErrInvalidStatus      = errors.New("order status is invalid")
	ErrInvalidTransition  = errors.New("order status transition is not allowed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrVerificationNeeded = errors.New("email verification needed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidQuantity    = errors.New("quantity is out of range")
	// ErrRejected marks a remote write the store refused. Retrying it cannot
	// succeed.
	ErrRejected = errors.New("write rejected by remote store")
)

// ValidationError carries field level problems plus a summary for display.
type ValidationError struct {
	Summary string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Summary != "" {
		return e.Summary
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) HasField(name string) bool {
	_, ok := e.Fields[name]
	return ok
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
