package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the operation that produced it.
type Kind string

const (
	KindConflict     Kind = "CONFLICT"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindUpstream     Kind = "UPSTREAM_FAILURE"
	KindInvalid      Kind = "INVALID"
	KindInternal     Kind = "INTERNAL"
)

// DomainError is a failure the service layer reports to callers.
// Its Message is safe to show to clients.
type DomainError struct {
	Kind    Kind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// New creates a DomainError of the given kind.
func New(kind Kind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

var (
	// ErrUserNotFound is returned when a user id or username does not resolve.
	ErrUserNotFound = New(KindNotFound, "User not found")
	// ErrUsernameTaken is returned when registering or renaming onto an existing username.
	ErrUsernameTaken = New(KindConflict, "Username already in use")
	// ErrInvalidPassword is returned when a credential does not match the stored hash.
	ErrInvalidPassword = New(KindUnauthorized, "Invalid password")
	// ErrInvalidGender is returned for a gender outside the supported set.
	ErrInvalidGender = New(KindInvalid, "Invalid gender")
	// ErrAvatarUpload is returned when the object storage provider fails.
	ErrAvatarUpload = New(KindUpstream, "Failed to upload profile picture")

	// ErrCribNotFound is returned when a crib id does not resolve.
	ErrCribNotFound = New(KindNotFound, "Crib not found")
	// ErrCribNameTaken is returned when a crib name is already used.
	ErrCribNameTaken = New(KindConflict, "Crib name already exists")
	// ErrAlreadyMember is returned when joining a crib the user already belongs to.
	ErrAlreadyMember = New(KindConflict, "User is already a member of this crib")
	// ErrInvalidInvite is returned for an unknown name/key pair. Wrong name and wrong key are
	// reported identically.
	ErrInvalidInvite = New(KindNotFound, "Invalid crib name or key")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// KindOf reports the kind of err, or KindInternal when err carries no DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a DomainError is
// reported as a generic internal error so that no internal detail reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	var de *DomainError
	if !errors.As(err, &de) {
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", string(KindInternal))
	}

	switch de.Kind {
	case KindConflict, KindInvalid:
		return NewHTTPError(http.StatusBadRequest, de.Message, string(de.Kind))
	case KindUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, de.Message, string(de.Kind))
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, de.Message, string(de.Kind))
	case KindUpstream:
		return NewHTTPError(http.StatusInternalServerError, de.Message, string(de.Kind))
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", string(KindInternal))
	}
}
