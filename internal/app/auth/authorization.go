package auth

import (
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// AuthorizationService decides what an authenticated caller may do with student records.
// Route-level role gates run first in middleware; the checks here need the record itself.
type AuthorizationService struct {
	logger zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(logger zerolog.Logger) *AuthorizationService {
	return &AuthorizationService{logger: logger}
}

// ValidateViewStudent checks that the caller may read student.
// Students may only read the record whose usn is their own.
func (s *AuthorizationService) ValidateViewStudent(caller *models.Identity, student *models.Student) error {
	switch caller.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return nil
	case models.RoleStudent:
		if caller.Usn != nil && *caller.Usn == student.Usn {
			return nil
		}
		if caller.Username == student.Usn {
			return nil
		}
	}

	s.logger.Warn().
		Str("userID", caller.ID.String()).
		Str("studentID", student.ID.String()).
		Msg("Student record read denied")
	return apperrors.NewForbiddenError("you can only view your own record")
}

// ValidateListByTeacher checks that the caller may list the students of teacherRef.
// Teachers may only list their own students.
func (s *AuthorizationService) ValidateListByTeacher(caller *models.Identity, teacherRef string) error {
	switch caller.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		if caller.Username == teacherRef {
			return nil
		}
	}

	s.logger.Warn().Str("userID", caller.ID.String()).Str("teacherRef", teacherRef).Msg("Teacher listing denied")
	return apperrors.NewForbiddenError("you can only list your own students")
}

// ValidateModifyStudent checks that the caller may apply upd to student.
// Teachers may only change attendance or cgpa of students assigned to them.
func (s *AuthorizationService) ValidateModifyStudent(caller *models.Identity, student *models.Student, upd models.StudentUpdate) error {
	switch caller.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		if student.AssignedTeacher != caller.Username {
			s.logger.Warn().
				Str("userID", caller.ID.String()).
				Str("studentID", student.ID.String()).
				Msg("Update of unassigned student denied")
			return apperrors.NewForbiddenError("student is not assigned to you")
		}
		if !upd.OnlyGrades() {
			return apperrors.NewForbiddenError("teachers can only update attendance and cgpa")
		}
		return nil
	}

	return apperrors.NewForbiddenError("you don't have permission to modify student records")
}
