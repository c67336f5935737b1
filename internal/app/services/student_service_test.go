package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/mocks"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

const defaultPassword = "123456"

type studentFixture struct {
	students *mocks.StudentStore
	users    *mocks.UserStore
	tx       *mocks.Transactor
	hasher   *auth.PasswordHasher
	service  *services.StudentService
}

func newStudentFixture(t *testing.T) *studentFixture {
	t.Helper()
	f := &studentFixture{
		students: mocks.NewStudentStore(t),
		users:    mocks.NewUserStore(t),
		tx:       &mocks.Transactor{},
		hasher:   auth.NewPasswordHasher(bcrypt.MinCost),
	}
	f.service = services.NewStudentService(f.students, f.users, f.tx, f.hasher, defaultPassword, zerolog.Nop())
	return f
}

func newCreateRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		Usn:      "1rv20cs010",
		Name:     "Priya Rao",
		Email:    "priya.r@rvce.edu.in",
		Course:   "Mechanical",
		Semester: 3,
	}
}

func TestStudentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the student and its paired login", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("UsnExists", ctx, "1RV20CS010").Return(false, nil)
		f.users.On("UsernameExists", ctx, "1RV20CS010").Return(false, nil)
		f.students.On("Create", ctx, mock.MatchedBy(func(s *models.Student) bool {
			return s.Usn == "1RV20CS010" && s.Course == models.CourseMechanical && s.Semester == 3
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Student).ID = uuid.New()
		}).Return(nil)

		var paired *models.User
		f.users.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
			paired = args.Get(1).(*models.User)
		}).Return(nil)

		resp, err := f.service.Create(ctx, newCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, "1RV20CS010", resp.Student.Usn)
		assert.Contains(t, resp.Notice, "1RV20CS010")
		assert.NotContains(t, resp.Notice, defaultPassword)
		assert.Equal(t, 1, f.tx.Calls)

		require.NotNil(t, paired)
		assert.Equal(t, "1RV20CS010", paired.Username)
		assert.Equal(t, models.RoleStudent, paired.Role)
		assert.True(t, paired.MustChangePassword)
		assert.True(t, f.hasher.Compare(paired.Password, defaultPassword))
		assert.Equal(t, "Priya Rao", paired.Name)
		require.NotNil(t, paired.Email)
		assert.Equal(t, "priya.r@rvce.edu.in", *paired.Email)
		require.NotNil(t, paired.Course)
		assert.Equal(t, "Mechanical", *paired.Course)
		require.NotNil(t, paired.Semester)
		assert.Equal(t, 3, *paired.Semester)
	})

	t.Run("duplicate usn creates nothing", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("UsnExists", ctx, "1RV20CS010").Return(true, nil)

		_, err := f.service.Create(ctx, newCreateRequest())
		assert.ErrorIs(t, err, apperrors.ErrDuplicateUsn)
		f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Zero(t, f.tx.Calls)
	})

	t.Run("username taken by another login", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("UsnExists", ctx, "1RV20CS010").Return(false, nil)
		f.users.On("UsernameExists", ctx, "1RV20CS010").Return(true, nil)

		_, err := f.service.Create(ctx, newCreateRequest())
		assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)
		f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("paired login failure surfaces from the transaction", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("UsnExists", ctx, "1RV20CS010").Return(false, nil)
		f.users.On("UsernameExists", ctx, "1RV20CS010").Return(false, nil)
		f.students.On("Create", ctx, mock.AnythingOfType("*models.Student")).Return(nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(apperrors.ErrDuplicateEmail)

		resp, err := f.service.Create(ctx, newCreateRequest())
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		assert.Equal(t, 1, f.tx.Calls)
	})

	t.Run("invalid course", func(t *testing.T) {
		f := newStudentFixture(t)
		req := newCreateRequest()
		req.Course = "Astrology"

		_, err := f.service.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("semester out of range", func(t *testing.T) {
		f := newStudentFixture(t)
		req := newCreateRequest()
		req.Semester = 9

		_, err := f.service.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestStudentService_SearchByUsn(t *testing.T) {
	ctx := context.Background()

	t.Run("any casing finds the student", func(t *testing.T) {
		f := newStudentFixture(t)
		want := &models.Student{ID: uuid.New(), Usn: "1RV20CS010"}
		f.students.On("GetByUsn", ctx, "1RV20CS010").Return(want, nil)

		got, err := f.service.SearchByUsn(ctx, " 1rv20cs010 ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unknown usn", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("GetByUsn", ctx, "1RV20CS404").Return(nil, apperrors.ErrStudentNotFound)

		_, err := f.service.SearchByUsn(ctx, "1rv20cs404")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("blank usn", func(t *testing.T) {
		f := newStudentFixture(t)

		_, err := f.service.SearchByUsn(ctx, "  ")
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestStudentService_Listing(t *testing.T) {
	ctx := context.Background()
	students := []*models.Student{{Usn: "1RV20CS001"}, {Usn: "1RV20CS002"}}

	t.Run("list all", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("List", ctx, models.StudentFilter{}).Return(students, nil)

		got, err := f.service.ListAll(ctx, models.StudentFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filtered by course and semester", func(t *testing.T) {
		f := newStudentFixture(t)
		course := models.CourseElectronics
		semester := 4
		filter := models.StudentFilter{Course: &course, Semester: &semester}
		f.students.On("List", ctx, filter).Return(students[1:], nil)

		got, err := f.service.ListAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("filter with an unknown course", func(t *testing.T) {
		f := newStudentFixture(t)
		course := models.Course("Astrology")

		_, err := f.service.ListAll(ctx, models.StudentFilter{Course: &course})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("by teacher", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("ListByTeacher", ctx, "teacher").Return(students[:1], nil)

		got, err := f.service.ListByTeacher(ctx, "teacher")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("List", ctx, models.StudentFilter{}).Return(nil, errors.New("dial tcp: refused"))

		_, err := f.service.ListAll(ctx, models.StudentFilter{})
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})
}

func TestStudentService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("attendance gets a percent sign", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("Update", ctx, id, mock.MatchedBy(func(u models.StudentUpdate) bool {
			return u.Attendance != nil && *u.Attendance == "92%" && u.OnlyGrades()
		})).Return(&models.Student{ID: id, Attendance: "92%"}, nil)

		got, err := f.service.UpdateAttendance(ctx, id, "92")
		require.NoError(t, err)
		assert.Equal(t, "92%", got.Attendance)
	})

	t.Run("grade", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("Update", ctx, id, mock.MatchedBy(func(u models.StudentUpdate) bool {
			return u.CGPA != nil && *u.CGPA == "9.1" && u.Attendance == nil
		})).Return(&models.Student{ID: id, CGPA: "9.1"}, nil)

		got, err := f.service.UpdateGrade(ctx, id, "9.1")
		require.NoError(t, err)
		assert.Equal(t, "9.1", got.CGPA)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("Update", ctx, id, mock.Anything).Return(nil, apperrors.ErrStudentNotFound)

		name := "Renamed"
		_, err := f.service.Update(ctx, id, models.StudentUpdate{Name: &name})
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("invalid semester", func(t *testing.T) {
		f := newStudentFixture(t)
		semester := 0

		_, err := f.service.Update(ctx, id, models.StudentUpdate{Semester: &semester})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestStudentService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("removes the paired login then the student", func(t *testing.T) {
		f := newStudentFixture(t)
		student := &models.Student{ID: id, Usn: "1RV20CS010"}
		f.students.On("GetByID", ctx, id).Return(student, nil)
		f.users.On("DeleteByUsername", ctx, "1RV20CS010").Return(true, nil)
		f.students.On("Delete", ctx, id).Return(nil)

		got, err := f.service.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, student, got)
		assert.Equal(t, 1, f.tx.Calls)
	})

	t.Run("missing paired login is not an error", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("GetByID", ctx, id).Return(&models.Student{ID: id, Usn: "1RV20CS011"}, nil)
		f.users.On("DeleteByUsername", ctx, "1RV20CS011").Return(false, nil)
		f.students.On("Delete", ctx, id).Return(nil)

		_, err := f.service.Delete(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("unknown id mutates nothing", func(t *testing.T) {
		f := newStudentFixture(t)
		f.students.On("GetByID", ctx, id).Return(nil, apperrors.ErrStudentNotFound)

		_, err := f.service.Delete(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
		f.users.AssertNotCalled(t, "DeleteByUsername", mock.Anything, mock.Anything)
		f.students.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
