package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

const (
	studentsUsnKey   = "students_usn_key"
	studentsEmailKey = "students_email_key"
)

var studentColumns = []string{
	"id", "usn", "name", "email", "phone", "course", "semester", "address", "dob",
	"father_name", "mother_name", "attendance", "cgpa", "fees_paid", "assigned_teacher",
	"created_at", "updated_at",
}

// StudentRepository is the student store
type StudentRepository struct {
	conn ConnProvider
	sb   squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn ConnProvider) *StudentRepository {
	return &StudentRepository{
		conn: conn,
		sb:   newStatementBuilder(),
	}
}

// Create inserts student and fills in its generated fields
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	if student.Attendance == "" {
		student.Attendance = models.DefaultAttendance
	}
	if student.CGPA == "" {
		student.CGPA = models.DefaultCGPA
	}

	sql, args, err := r.sb.Insert("students").
		Columns("id", "usn", "name", "email", "phone", "course", "semester", "address", "dob",
			"father_name", "mother_name", "attendance", "cgpa", "fees_paid", "assigned_teacher").
		Values(student.ID, student.Usn, student.Name, student.Email, student.Phone, student.Course,
			student.Semester, student.Address, student.Dob, student.FatherName, student.MotherName,
			student.Attendance, student.CGPA, student.FeesPaid, student.AssignedTeacher).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student insert: %w", err)
	}

	if err := r.conn.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&student.CreatedAt, &student.UpdatedAt); err != nil {
		return r.translateWriteError(err, student.Usn, "create")
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsn retrieves a student by its exact usn
func (r *StudentRepository) GetByUsn(ctx context.Context, usn string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"usn": usn})
}

// UsnExists checks if a usn is taken
func (r *StudentRepository) UsnExists(ctx context.Context, usn string) (bool, error) {
	var exists bool
	err := r.conn.Conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE usn = $1)`, usn).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Str("usn", usn).Msg("Error checking usn")
		return false, fmt.Errorf("%w: check usn", apperrors.ErrStoreUnavailable)
	}
	return exists, nil
}

// List returns the students matching filter ordered by usn
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	query := r.sb.Select(studentColumns...).From("students").OrderBy("usn ASC")

	if filter.AssignedTeacher != nil {
		query = query.Where(squirrel.Eq{"assigned_teacher": *filter.AssignedTeacher})
	}
	if filter.Course != nil {
		query = query.Where(squirrel.Eq{"course": *filter.Course})
	}
	if filter.Semester != nil {
		query = query.Where(squirrel.Eq{"semester": *filter.Semester})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.conn.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, fmt.Errorf("%w: list students", apperrors.ErrStoreUnavailable)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("%w: scan student", apperrors.ErrStoreUnavailable)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("%w: list students", apperrors.ErrStoreUnavailable)
	}

	return students, nil
}

// ListByTeacher returns the students whose assigned teacher equals teacherRef
func (r *StudentRepository) ListByTeacher(ctx context.Context, teacherRef string) ([]*models.Student, error) {
	return r.List(ctx, models.StudentFilter{AssignedTeacher: &teacherRef})
}

// Update applies the non-nil fields of upd and returns the updated row
func (r *StudentRepository) Update(ctx context.Context, id uuid.UUID, upd models.StudentUpdate) (*models.Student, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	changes := map[string]interface{}{"updated_at": squirrel.Expr("NOW()")}
	if upd.Name != nil {
		changes["name"] = *upd.Name
	}
	if upd.Email != nil {
		changes["email"] = *upd.Email
	}
	if upd.Phone != nil {
		changes["phone"] = *upd.Phone
	}
	if upd.Course != nil {
		changes["course"] = *upd.Course
	}
	if upd.Semester != nil {
		changes["semester"] = *upd.Semester
	}
	if upd.Address != nil {
		changes["address"] = *upd.Address
	}
	if upd.Dob != nil {
		changes["dob"] = *upd.Dob
	}
	if upd.FatherName != nil {
		changes["father_name"] = *upd.FatherName
	}
	if upd.MotherName != nil {
		changes["mother_name"] = *upd.MotherName
	}
	if upd.Attendance != nil {
		changes["attendance"] = *upd.Attendance
	}
	if upd.CGPA != nil {
		changes["cgpa"] = *upd.CGPA
	}
	if upd.FeesPaid != nil {
		changes["fees_paid"] = *upd.FeesPaid
	}
	if upd.AssignedTeacher != nil {
		changes["assigned_teacher"] = *upd.AssignedTeacher
	}

	sql, args, err := r.sb.Update("students").
		SetMap(changes).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student update: %w", err)
	}

	student, err := scanStudent(r.conn.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, r.translateWriteError(err, id.String(), "update")
	}
	return student, nil
}

// Delete removes the student with id
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn.Conn(ctx).Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("studentID", id.String()).Msg("Error deleting student")
		return fmt.Errorf("%w: delete student", apperrors.ErrStoreUnavailable)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	student, err := scanStudent(r.conn.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error retrieving student")
		return nil, fmt.Errorf("%w: get student", apperrors.ErrStoreUnavailable)
	}
	return student, nil
}

func (r *StudentRepository) translateWriteError(err error, ref, op string) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, studentsUsnKey):
		return apperrors.ErrDuplicateUsn
	case dberrors.IsDuplicateConstraintError(err, studentsEmailKey):
		return apperrors.ErrDuplicateEmail
	}
	logger.Error().Err(err).Str("ref", ref).Str("op", op).Msg("Error writing student")
	return fmt.Errorf("%w: %s student", apperrors.ErrStoreUnavailable, op)
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID, &s.Usn, &s.Name, &s.Email, &s.Phone, &s.Course, &s.Semester, &s.Address, &s.Dob,
		&s.FatherName, &s.MotherName, &s.Attendance, &s.CGPA, &s.FeesPaid, &s.AssignedTeacher,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
