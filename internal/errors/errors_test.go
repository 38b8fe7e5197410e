package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{"conflict", ErrCribNameTaken, http.StatusBadRequest, "Crib name already exists", "CONFLICT"},
		{"already member", ErrAlreadyMember, http.StatusBadRequest, "User is already a member of this crib", "CONFLICT"},
		{"invalid", ErrInvalidGender, http.StatusBadRequest, "Invalid gender", "INVALID"},
		{"unauthorized", ErrInvalidPassword, http.StatusUnauthorized, "Invalid password", "UNAUTHORIZED"},
		{"not found", ErrUserNotFound, http.StatusNotFound, "User not found", "NOT_FOUND"},
		{"invalid invite", ErrInvalidInvite, http.StatusNotFound, "Invalid crib name or key", "NOT_FOUND"},
		{"wrapped upstream", fmt.Errorf("%w: bucket missing", ErrAvatarUpload), http.StatusInternalServerError, "Failed to upload profile picture", "UPSTREAM_FAILURE"},
		{"unknown", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Internal server error", "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("get crib: %w", ErrCribNotFound)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestHTTPError_ToErrorResponse(t *testing.T) {
	resp := NewHTTPError(http.StatusNotFound, "Crib not found", "NOT_FOUND").ToErrorResponse()
	assert.Equal(t, ErrorResponse{Message: "Crib not found", Code: "NOT_FOUND"}, resp)
}
