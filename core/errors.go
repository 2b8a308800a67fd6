package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// CorruptDataError reports a stored value that is present but cannot be
// decoded into its collection shape. Corrupt keys are never auto-repaired:
// reads keep failing until the key is cleared or overwritten by an import.
type CorruptDataError struct {
	Key string
	Err error
}

func NewCorruptDataError(key string, err error) error {
	return &CorruptDataError{Key: key, Err: err}
}

func (e CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data at key %q: %v", e.Key, e.Err)
}

func (e CorruptDataError) Unwrap() error { return e.Err }

func IsCorruptData(err error) bool {
	_, ok := errors.Cause(err).(*CorruptDataError)
	return ok
}

// StorageUnavailableError reports a failing underlying store (full disk,
// unreachable database...). It is never retried by the storage layer.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func NewStorageUnavailableError(op string, err error) error {
	return &StorageUnavailableError{Op: op, Err: err}
}

func (e StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e StorageUnavailableError) Unwrap() error { return e.Err }

func IsStorageUnavailable(err error) bool {
	_, ok := errors.Cause(err).(*StorageUnavailableError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
