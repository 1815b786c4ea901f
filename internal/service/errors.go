package service

import (
	"errors"
	"fmt"

	"smartpass/internal/repository"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound           = repository.ErrNotFound
	ErrConflict           = repository.ErrDuplicate
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("token is not valid or expired")
)

// Error carries a client-safe message alongside its kind
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// storeError keeps not-found and conflict kinds readable and passes anything else through
func storeError(err error, entity string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return newError(ErrNotFound, "%s not found", entity)
	case errors.Is(err, repository.ErrDuplicate):
		return newError(ErrConflict, "%s already exists", entity)
	case errors.Is(err, repository.ErrInvalidFilter):
		return newError(ErrValidation, "%s", err.Error())
	}
	return err
}
