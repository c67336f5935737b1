// Package mocks holds testify mocks for the store interfaces consumed by the services.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yigit/studentrecords/internal/app/models"
)

// UserStore is a mock of services.UserStore
type UserStore struct {
	mock.Mock
}

// NewUserStore creates a UserStore mock whose expectations are asserted when the test ends
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserStore) GetByUsernameAndRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, username, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, mustChange bool) error {
	args := m.Called(ctx, id, hash, mustChange)
	return args.Error(0)
}

// StudentStore is a mock of services.StudentStore
type StudentStore struct {
	mock.Mock
}

// NewStudentStore creates a StudentStore mock whose expectations are asserted when the test ends
func NewStudentStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *StudentStore {
	m := &StudentStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StudentStore) Create(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *StudentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	args := m.Called(ctx, id)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentStore) GetByUsn(ctx context.Context, usn string) (*models.Student, error) {
	args := m.Called(ctx, usn)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentStore) UsnExists(ctx context.Context, usn string) (bool, error) {
	args := m.Called(ctx, usn)
	return args.Bool(0), args.Error(1)
}

func (m *StudentStore) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	args := m.Called(ctx, filter)
	students, _ := args.Get(0).([]*models.Student)
	return students, args.Error(1)
}

func (m *StudentStore) ListByTeacher(ctx context.Context, teacherRef string) ([]*models.Student, error) {
	args := m.Called(ctx, teacherRef)
	students, _ := args.Get(0).([]*models.Student)
	return students, args.Error(1)
}

func (m *StudentStore) Update(ctx context.Context, id uuid.UUID, upd models.StudentUpdate) (*models.Student, error) {
	args := m.Called(ctx, id, upd)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *StudentStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Transactor runs the function it is given directly and counts the calls
type Transactor struct {
	Calls int
}

func (t *Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}
