package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:      http.StatusNotFound,
		ErrCodeUnauthorized:  http.StatusUnauthorized,
		ErrCodeForbidden:     http.StatusForbidden,
		ErrCodeConflict:      http.StatusBadRequest,
		ErrCodeValidation:    http.StatusBadRequest,
		ErrCodeBadRequest:    http.StatusBadRequest,
		ErrCodeDatabaseError: http.StatusInternalServerError,
		ErrCodeInternal:      http.StatusInternalServerError,
		ErrCodeRateLimited:   http.StatusTooManyRequests,
	}

	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, string(code))
	}
}

func TestWrap_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ErrCodeDatabaseError, "не удалось сохранить")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("bid usecase: %w", ErrBidNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.True(t, IsConflict(New(ErrCodeConflict, "дубликат")))
	assert.True(t, IsForbidden(ErrForbidden))
	assert.True(t, IsUnauthorized(ErrInvalidCredentials))
	assert.True(t, IsValidation(New(ErrCodeValidation, "поле обязательно")))
}
