package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
)

// AuthService is a mock of the controller-facing authentication service
type AuthService struct {
	mock.Mock
}

// NewAuthService creates an AuthService mock whose expectations are asserted when the test ends
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.LoginResponse)
	return resp, args.Error(1)
}

func (m *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.RegisterResponse)
	return resp, args.Error(1)
}

func (m *AuthService) Identify(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func (m *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

// StudentService is a mock of the controller-facing directory service
type StudentService struct {
	mock.Mock
}

// NewStudentService creates a StudentService mock whose expectations are asserted when the test ends
func NewStudentService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StudentService {
	m := &StudentService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StudentService) ListAll(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	args := m.Called(ctx, filter)
	students, _ := args.Get(0).([]*models.Student)
	return students, args.Error(1)
}

func (m *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	args := m.Called(ctx, id)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentService) SearchByUsn(ctx context.Context, usn string) (*models.Student, error) {
	args := m.Called(ctx, usn)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentService) ListByTeacher(ctx context.Context, teacherRef string) ([]*models.Student, error) {
	args := m.Called(ctx, teacherRef)
	students, _ := args.Get(0).([]*models.Student)
	return students, args.Error(1)
}

func (m *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.CreateStudentResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.CreateStudentResponse)
	return resp, args.Error(1)
}

func (m *StudentService) Update(ctx context.Context, id uuid.UUID, upd models.StudentUpdate) (*models.Student, error) {
	args := m.Called(ctx, id, upd)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentService) Delete(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	args := m.Called(ctx, id)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentService) UpdateAttendance(ctx context.Context, id uuid.UUID, attendance string) (*models.Student, error) {
	args := m.Called(ctx, id, attendance)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentService) UpdateGrade(ctx context.Context, id uuid.UUID, cgpa string) (*models.Student, error) {
	args := m.Called(ctx, id, cgpa)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}
