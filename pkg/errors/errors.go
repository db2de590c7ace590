package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("record not found")
	ErrProviderUnavailable   = errors.New("scan provider unavailable")
	ErrNotifierNotConfigured = errors.New("notification client not configured")
)

// ProviderError wraps a fault from an external intelligence provider.
// It matches ErrProviderUnavailable under errors.Is.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}

// StorageError wraps a persistence fault. The provider-side effects of the
// scan have already happened by the time this is returned; they are not
// undone.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Err: err,
	}
}

// InputError carries the offending field so handlers can build 400 payloads.
// It matches ErrInvalidInput under errors.Is.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewInputError(field, message string) *InputError {
	return &InputError{
		Field:   field,
		Message: message,
	}
}
