//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/studentrecords/internal/app/migrations"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	repo "github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
)

var database *db.PostgresDB

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "student_management_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn := fmt.Sprintf("postgres://postgres:password@%s:%s/student_management_test?sslmode=disable", host, port.Port())

	// The port can accept connections shortly before postgres is ready for queries
	for attempt := 0; attempt < 10; attempt++ {
		database, err = db.Connect(dsn, config.DatabaseConfig{MaxOpenConns: 5})
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		panic(err)
	}
	if err := migrations.NewMigrator(database.Pool, zerolog.Nop()).Up(); err != nil {
		panic(err)
	}

	code := m.Run()
	database.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	_, err := database.Pool.Exec(context.Background(), "TRUNCATE users, students")
	require.NoError(t, err)
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.Pool.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}

func newStudent(usn, email string) *models.Student {
	return &models.Student{
		Usn:             usn,
		Name:            "Student " + usn,
		Email:           email,
		Course:          models.CourseComputerScience,
		Semester:        5,
		AssignedTeacher: "teacher",
	}
}

func TestUserRepository(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	users := repo.NewUserRepository(database)

	email := "sarah.j@college.edu"
	teacher := &models.User{Username: "teacher", Password: "hash", Role: models.RoleTeacher, Name: "Dr. Sarah Johnson", Email: &email}
	require.NoError(t, users.Create(ctx, teacher))
	assert.NotEqual(t, uuid.Nil, teacher.ID)
	assert.False(t, teacher.CreatedAt.IsZero())

	got, err := users.GetByUsername(ctx, "teacher")
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, got.ID)

	_, err = users.GetByUsernameAndRole(ctx, "teacher", models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = users.Create(ctx, &models.User{Username: "teacher", Password: "hash", Role: models.RoleAdmin, Name: "Dup"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)

	err = users.Create(ctx, &models.User{Username: "other", Password: "hash", Role: models.RoleTeacher, Name: "Dup", Email: &email})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	require.NoError(t, users.UpdatePassword(ctx, teacher.ID, "new-hash", false))
	got, err = users.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)

	assert.ErrorIs(t, users.UpdatePassword(ctx, uuid.New(), "x", false), apperrors.ErrUserNotFound)

	removed, err := users.DeleteByUsername(ctx, "teacher")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = users.DeleteByUsername(ctx, "teacher")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStudentRepository(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	students := repo.NewStudentRepository(database)

	b := newStudent("1RV20CS002", "b@rvce.edu.in")
	a := newStudent("1RV20CS001", "a@rvce.edu.in")
	require.NoError(t, students.Create(ctx, b))
	require.NoError(t, students.Create(ctx, a))
	assert.Equal(t, models.DefaultAttendance, a.Attendance)
	assert.Equal(t, models.DefaultCGPA, a.CGPA)

	err := students.Create(ctx, newStudent("1RV20CS001", "c@rvce.edu.in"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsn)
	err = students.Create(ctx, newStudent("1RV20CS003", "a@rvce.edu.in"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	list, err := students.List(ctx, models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1RV20CS001", list[0].Usn)
	assert.Equal(t, "1RV20CS002", list[1].Usn)

	mine, err := students.ListByTeacher(ctx, "teacher")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	none, err := students.ListByTeacher(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	ec := newStudent("1RV20EC003", "ec@rvce.edu.in")
	ec.Course = models.CourseElectronics
	ec.Semester = 3
	require.NoError(t, students.Create(ctx, ec))

	course := models.CourseElectronics
	byCourse, err := students.List(ctx, models.StudentFilter{Course: &course})
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "1RV20EC003", byCourse[0].Usn)

	semester := 5
	bySemester, err := students.List(ctx, models.StudentFilter{Semester: &semester})
	require.NoError(t, err)
	assert.Len(t, bySemester, 2)

	both, err := students.List(ctx, models.StudentFilter{Course: &course, Semester: &semester})
	require.NoError(t, err)
	assert.Empty(t, both)

	cgpa := "9.4"
	updated, err := students.Update(ctx, a.ID, models.StudentUpdate{CGPA: &cgpa})
	require.NoError(t, err)
	assert.Equal(t, "9.4", updated.CGPA)
	assert.Equal(t, a.Name, updated.Name)
	assert.Equal(t, a.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = students.Update(ctx, uuid.New(), models.StudentUpdate{CGPA: &cgpa})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	require.NoError(t, students.Delete(ctx, a.ID))
	assert.ErrorIs(t, students.Delete(ctx, a.ID), apperrors.ErrStudentNotFound)
	_, err = students.GetByUsn(ctx, "1RV20CS001")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func newDirectory() (*services.StudentService, *repo.Repositories, *auth.PasswordHasher) {
	repos := repo.NewRepositories(database)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return services.NewStudentService(repos.StudentRepository, repos.UserRepository, database, hasher, "123456", zerolog.Nop()),
		repos, hasher
}

func TestStudentService_PairedAccounts(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	directory, repos, hasher := newDirectory()

	resp, err := directory.Create(ctx, &dto.CreateStudentRequest{
		Usn: "1rv20cs010", Name: "Priya Rao", Email: "priya.r@rvce.edu.in", Course: "Mechanical", Semester: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "1RV20CS010", resp.Student.Usn)

	found, err := directory.SearchByUsn(ctx, "1rv20cs010")
	require.NoError(t, err)
	assert.Equal(t, resp.Student.ID, found.ID)

	paired, err := repos.UserRepository.GetByUsernameAndRole(ctx, "1RV20CS010", models.RoleStudent)
	require.NoError(t, err)
	assert.True(t, paired.MustChangePassword)
	assert.True(t, hasher.Compare(paired.Password, "123456"))

	_, err = directory.Create(ctx, &dto.CreateStudentRequest{
		Usn: "1RV20CS010", Name: "Dup", Email: "dup@rvce.edu.in", Course: "Civil", Semester: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsn)
	assert.Equal(t, 1, countRows(t, "students"))
	assert.Equal(t, 1, countRows(t, "users"))

	deleted, err := directory.Delete(ctx, resp.Student.ID)
	require.NoError(t, err)
	assert.Equal(t, "1RV20CS010", deleted.Usn)

	_, err = repos.UserRepository.GetByUsername(ctx, "1RV20CS010")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = directory.GetByID(ctx, resp.Student.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentService_CreateRollsBack(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	directory, repos, _ := newDirectory()

	// A login already owns the email, so the paired user insert fails after the student insert
	email := "taken@rvce.edu.in"
	require.NoError(t, repos.UserRepository.Create(ctx, &models.User{
		Username: "someone", Password: "hash", Role: models.RoleTeacher, Name: "Someone", Email: &email,
	}))

	_, err := directory.Create(ctx, &dto.CreateStudentRequest{
		Usn: "1RV20CS020", Name: "Rolled Back", Email: email, Course: "Civil", Semester: 2,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	exists, err := repos.StudentRepository.UsnExists(ctx, "1RV20CS020")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStudentService_DeleteUnknownMutatesNothing(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	directory, repos, _ := newDirectory()

	_, err := directory.Create(ctx, &dto.CreateStudentRequest{
		Usn: "1RV20CS030", Name: "Kept", Email: "kept@rvce.edu.in", Course: "Civil", Semester: 2,
	})
	require.NoError(t, err)

	_, err = directory.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	all, err := directory.ListAll(ctx, models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	exists, err := repos.UserRepository.UsernameExists(ctx, "1RV20CS030")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStudentService_UpdateAttendanceKeepsOtherFields(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	directory, _, _ := newDirectory()

	resp, err := directory.Create(ctx, &dto.CreateStudentRequest{
		Usn: "1RV20CS040", Name: "Asha K", Email: "asha.k@rvce.edu.in", Phone: "9000000040",
		Course: "Electrical", Semester: 4, Address: "12 MG Road", Dob: "2003-01-09",
		FatherName: "Kiran K", MotherName: "Meera K", CGPA: "8.2", FeesPaid: true, AssignedTeacher: "teacher",
	})
	require.NoError(t, err)
	before, err := directory.GetByID(ctx, resp.Student.ID)
	require.NoError(t, err)

	_, err = directory.UpdateAttendance(ctx, before.ID, "92%")
	require.NoError(t, err)

	after, err := directory.GetByID(ctx, before.ID)
	require.NoError(t, err)
	assert.Equal(t, "92%", after.Attendance)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	// everything except attendance and the update stamp is untouched
	want := *before
	want.Attendance = after.Attendance
	want.CreatedAt, want.UpdatedAt = time.Time{}, time.Time{}
	got := *after
	got.CreatedAt, got.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
}
