package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/myhome/myhome-service/internal/domain"
)

// AuthenticationFailedMessage is the single message returned for any failed login so that
// callers cannot tell an unknown identifier from a wrong secret.
const AuthenticationFailedMessage = "Credentials are incorrect or user does not exists"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewBadRequest(message string) error {
	return NewDomainError("BAD_REQUEST", message, http.StatusBadRequest, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewTooManyRequests(message string) error {
	return NewDomainError("RATE_LIMITED", message, http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrCredentialsIncorrect):
		return &DomainError{Code: "UNAUTHORIZED", Message: AuthenticationFailedMessage, HTTPStatus: http.StatusUnauthorized, Err: err}
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrEmailConfirmed):
		return &DomainError{Code: "CONFLICT", Message: err.Error(), HTTPStatus: http.StatusConflict, Err: err}
	case errors.Is(err, domain.ErrCommunityNotFound), errors.Is(err, domain.ErrHouseNotFound):
		return &DomainError{Code: "NOT_FOUND", Message: err.Error(), HTTPStatus: http.StatusNotFound, Err: err}
	case errors.Is(err, domain.ErrNotFound):
		return &DomainError{Code: "NOT_FOUND", Message: "resource not found", HTTPStatus: http.StatusNotFound, Err: err}
	case errors.Is(err, domain.ErrForbidden):
		return &DomainError{Code: "FORBIDDEN", Message: "forbidden", HTTPStatus: http.StatusForbidden, Err: err}
	case errors.Is(err, domain.ErrPasswordTooLong):
		return &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    "request validation failed",
			HTTPStatus: http.StatusBadRequest,
			Details:    map[string]any{"password": err.Error()},
			Err:        err,
		}
	case errors.Is(err, domain.ErrResetTokenInvalid), errors.Is(err, domain.ErrConfirmTokenInvalid):
		return &DomainError{Code: "BAD_REQUEST", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "REQUEST_FAILED"
}
