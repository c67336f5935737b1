package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Services defined in this package:
// - AuthService: login, registration, token identification, password change and demo accounts
// - StudentService: the student directory, which keeps each Student paired with one User

// UserStore is the credential store used by the services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsernameAndRole(ctx context.Context, username string, role models.Role) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	DeleteByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, mustChange bool) error
}

// StudentStore is the student store used by the services
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	GetByUsn(ctx context.Context, usn string) (*models.Student, error)
	UsnExists(ctx context.Context, usn string) (bool, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	ListByTeacher(ctx context.Context, teacherRef string) ([]*models.Student, error)
	Update(ctx context.Context, id uuid.UUID, upd models.StudentUpdate) (*models.Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Transactor runs fn so that every store call made with the ctx it receives commits or rolls back together
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var knownErrors = []error{
	apperrors.ErrResourceNotFound,
	apperrors.ErrConflict,
	apperrors.ErrInvalidCredentials,
	apperrors.ErrTokenInvalid,
	apperrors.ErrPermissionDenied,
	apperrors.ErrValidationFailed,
	apperrors.ErrStoreUnavailable,
}

// storeError keeps taxonomy errors as they are and reports anything else as an unavailable store
func storeError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}
