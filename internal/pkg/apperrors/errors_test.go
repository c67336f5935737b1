package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefinedErrorsMatchBase(t *testing.T) {
	assert.ErrorIs(t, ErrStudentNotFound, ErrResourceNotFound)
	assert.ErrorIs(t, ErrUserNotFound, ErrResourceNotFound)
	assert.ErrorIs(t, ErrTokenExpired, ErrTokenInvalid)
	assert.ErrorIs(t, ErrDuplicateUsn, ErrConflict)
	assert.ErrorIs(t, ErrDuplicateUser, ErrConflict)

	assert.False(t, errors.Is(ErrDuplicateUsn, ErrDuplicateUser))
	assert.False(t, errors.Is(ErrStudentNotFound, ErrUserNotFound))
}

func TestCustomError(t *testing.T) {
	err := &CustomError{Err: ErrStudentNotFound, Message: "no student with usn 1RV20CS999"}
	wrapped := fmt.Errorf("lookup: %w", err)

	assert.Equal(t, "no student with usn 1RV20CS999", err.Error())
	assert.ErrorIs(t, wrapped, ErrResourceNotFound)

	var custom *CustomError
	assert.True(t, errors.As(wrapped, &custom))

	assert.Equal(t, "unknown error", (&CustomError{}).Error())
	assert.Equal(t, ErrConflict.Error(), (&CustomError{Err: ErrConflict}).Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid student", map[string]string{"semester": "must be between 1 and 8"})

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, "must be between 1 and 8", err.Details["semester"])
}
