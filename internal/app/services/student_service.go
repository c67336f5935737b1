package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/metrics"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// StudentService is the student directory. It owns the rule that every Student has exactly one
// User whose username equals the student's usn.
type StudentService struct {
	studentRepo     StudentStore
	userRepo        UserStore
	tx              Transactor
	hasher          *auth.PasswordHasher
	defaultPassword string
	logger          zerolog.Logger
}

// NewStudentService creates a new StudentService. defaultPassword is given to every paired login.
func NewStudentService(
	studentRepo StudentStore,
	userRepo UserStore,
	tx Transactor,
	hasher *auth.PasswordHasher,
	defaultPassword string,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo:     studentRepo,
		userRepo:        userRepo,
		tx:              tx,
		hasher:          hasher,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// NormalizeUsn trims and uppercases a usn
func NormalizeUsn(usn string) string {
	return strings.ToUpper(strings.TrimSpace(usn))
}

// ListAll returns the students matching filter ordered by usn. A zero filter returns everyone.
func (s *StudentService) ListAll(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	if filter.Course != nil && !filter.Course.Valid() {
		return nil, apperrors.NewValidationError("invalid course", map[string]string{"course": "must be one of the offered courses"})
	}
	if filter.Semester != nil && (*filter.Semester < models.MinSemester || *filter.Semester > models.MaxSemester) {
		return nil, apperrors.NewValidationError("invalid semester", map[string]string{"semester": "must be between 1 and 8"})
	}

	students, err := s.studentRepo.List(ctx, filter)
	return students, storeError(err)
}

// GetByID returns the student with id
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	return student, storeError(err)
}

// SearchByUsn looks a student up by usn in any casing
func (s *StudentService) SearchByUsn(ctx context.Context, usn string) (*models.Student, error) {
	usn = NormalizeUsn(usn)
	if usn == "" {
		return nil, apperrors.ErrStudentNotFound
	}
	student, err := s.studentRepo.GetByUsn(ctx, usn)
	return student, storeError(err)
}

// ListByTeacher returns the students assigned to teacherRef
func (s *StudentService) ListByTeacher(ctx context.Context, teacherRef string) ([]*models.Student, error) {
	students, err := s.studentRepo.ListByTeacher(ctx, strings.TrimSpace(teacherRef))
	return students, storeError(err)
}

// Create stores a student together with its paired login in one transaction
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (resp *dto.CreateStudentResponse, err error) {
	defer func() { metrics.RecordStudentOperation("create", err) }()

	student := req.ToModel()
	if student.Usn == "" {
		return nil, apperrors.NewValidationError("usn is required", map[string]string{"usn": "is required"})
	}
	if !student.Course.Valid() {
		return nil, apperrors.NewValidationError("invalid course", map[string]string{"course": "must be one of the offered courses"})
	}
	if student.Semester < models.MinSemester || student.Semester > models.MaxSemester {
		return nil, apperrors.NewValidationError("invalid semester", map[string]string{"semester": "must be between 1 and 8"})
	}
	student.Attendance = validation.NormalizeAttendance(student.Attendance)

	exists, err := s.studentRepo.UsnExists(ctx, student.Usn)
	if err != nil {
		return nil, storeError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateUsn
	}

	exists, err = s.userRepo.UsernameExists(ctx, student.Usn)
	if err != nil {
		return nil, storeError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateUser
	}

	hash, err := s.hasher.Hash(s.defaultPassword)
	if err != nil {
		return nil, err
	}

	usn := student.Usn
	course := string(student.Course)
	semester := student.Semester
	email := student.Email
	user := &models.User{
		Username:           usn,
		Password:           hash,
		Role:               models.RoleStudent,
		Name:               student.Name,
		Email:              &email,
		Usn:                &usn,
		Course:             &course,
		Semester:           &semester,
		MustChangePassword: true,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.studentRepo.Create(ctx, student); err != nil {
			return err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("paired login: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("usn", usn).Msg("Student creation rolled back")
		return nil, storeError(err)
	}

	s.logger.Info().Str("studentID", student.ID.String()).Str("usn", usn).Msg("Student created with paired login")

	return &dto.CreateStudentResponse{
		Student: student,
		Notice: fmt.Sprintf("Student login created with username %s. A default password was set and must be changed at first login.",
			usn),
	}, nil
}

// Update applies the provided fields to the student with id. The paired login is not touched.
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, upd models.StudentUpdate) (*models.Student, error) {
	if upd.Course != nil && !upd.Course.Valid() {
		return nil, apperrors.NewValidationError("invalid course", map[string]string{"course": "must be one of the offered courses"})
	}
	if upd.Semester != nil && (*upd.Semester < models.MinSemester || *upd.Semester > models.MaxSemester) {
		return nil, apperrors.NewValidationError("invalid semester", map[string]string{"semester": "must be between 1 and 8"})
	}
	if upd.Attendance != nil {
		attendance := validation.NormalizeAttendance(*upd.Attendance)
		upd.Attendance = &attendance
	}

	student, err := s.studentRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Info().Str("studentID", id.String()).Msg("Student updated")
	return student, nil
}

// Delete removes the student with id and its paired login in one transaction
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) (deleted *models.Student, err error) {
	defer func() { metrics.RecordStudentOperation("delete", err) }()

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		student, err := s.studentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		removed, err := s.userRepo.DeleteByUsername(ctx, student.Usn)
		if err != nil {
			return err
		}
		if !removed {
			s.logger.Warn().Str("usn", student.Usn).Msg("Student had no paired login")
		}

		if err := s.studentRepo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = student
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Warn().Err(err).Str("studentID", id.String()).Msg("Student deletion rolled back")
		}
		return nil, storeError(err)
	}

	s.logger.Info().Str("studentID", id.String()).Str("usn", deleted.Usn).Msg("Student deleted with paired login")
	return deleted, nil
}

// UpdateAttendance sets only the attendance of the student with id
func (s *StudentService) UpdateAttendance(ctx context.Context, id uuid.UUID, attendance string) (*models.Student, error) {
	return s.Update(ctx, id, models.StudentUpdate{Attendance: &attendance})
}

// UpdateGrade sets only the cgpa of the student with id
func (s *StudentService) UpdateGrade(ctx context.Context, id uuid.UUID, cgpa string) (*models.Student, error) {
	cgpa = strings.TrimSpace(cgpa)
	return s.Update(ctx, id, models.StudentUpdate{CGPA: &cgpa})
}
