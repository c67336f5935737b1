package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// StudentService is the directory behaviour the controller needs
type StudentService interface {
	ListAll(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	SearchByUsn(ctx context.Context, usn string) (*models.Student, error)
	ListByTeacher(ctx context.Context, teacherRef string) ([]*models.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.CreateStudentResponse, error)
	Update(ctx context.Context, id uuid.UUID, upd models.StudentUpdate) (*models.Student, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Student, error)
	UpdateAttendance(ctx context.Context, id uuid.UUID, attendance string) (*models.Student, error)
	UpdateGrade(ctx context.Context, id uuid.UUID, cgpa string) (*models.Student, error)
}

// StudentAuthorizer holds the record-level access rules
type StudentAuthorizer interface {
	ValidateViewStudent(caller *models.Identity, student *models.Student) error
	ValidateListByTeacher(caller *models.Identity, teacherRef string) error
	ValidateModifyStudent(caller *models.Identity, student *models.Student, upd models.StudentUpdate) error
}

// StudentController handles student directory operations
type StudentController struct {
	studentService StudentService
	authorizer     StudentAuthorizer
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService StudentService, authorizer StudentAuthorizer, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		authorizer:     authorizer,
		logger:         logger,
	}
}

// ListStudents returns every student, optionally narrowed by course and semester
// @Summary List students
// @Description Returns students ordered by usn
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param course query string false "Course" Enums(Computer Science, Electronics, Mechanical, Civil, Electrical)
// @Param semester query int false "Semester (1-8)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Admin or teacher only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var query dto.ListStudentsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	students, err := c.studentService.ListAll(ctx.Request.Context(), query.ToFilter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students, ""))
}

// SearchByUsn looks a student up by usn
// @Summary Search student by USN
// @Description Case-insensitive lookup of a single student. Public.
// @Tags students
// @Produce json
// @Param usn path string true "University serial number"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/search/{usn} [get]
func (c *StudentController) SearchByUsn(ctx *gin.Context) {
	student, err := c.studentService.SearchByUsn(ctx.Request.Context(), ctx.Param("usn"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// ListByTeacher returns the students assigned to a teacher
// @Summary List students by teacher
// @Description Returns the students whose assignedTeacher matches. Teachers can only list their own.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param teacherRef path string true "Teacher username"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/teacher/{teacherRef} [get]
func (c *StudentController) ListByTeacher(ctx *gin.Context) {
	caller, ok := c.caller(ctx)
	if !ok {
		return
	}

	teacherRef := ctx.Param("teacherRef")
	if err := c.authorizer.ValidateListByTeacher(caller, teacherRef); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	students, err := c.studentService.ListByTeacher(ctx.Request.Context(), teacherRef)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students, ""))
}

// GetStudent returns a single student
// @Summary Get student
// @Description Returns a student by id. Students can only read their own record.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	caller, ok := c.caller(ctx)
	if !ok {
		return
	}

	student, ok := c.loadStudent(ctx)
	if !ok {
		return
	}

	if err := c.authorizer.ValidateViewStudent(caller, student); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// CreateStudent adds a student and its login
// @Summary Create student
// @Description Creates a student record and a paired student login whose username is the usn. The login gets a default password that must be changed at first login.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateStudentResponse} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or usn already exists"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create student payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("usn", req.Usn).Msg("Failed to create student")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Student created successfully"))
}

// UpdateStudent applies a partial update
// @Summary Update student
// @Description Updates the provided fields. usn and createdAt cannot be changed. Teachers can only change attendance and cgpa of their own students.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid update student payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	upd := req.ToUpdate()
	if upd.IsEmpty() {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("no fields to update", nil))
		return
	}

	c.modify(ctx, upd, func(id uuid.UUID) (*models.Student, error) {
		return c.studentService.Update(ctx.Request.Context(), id, upd)
	})
}

// DeleteStudent removes a student and its login
// @Summary Delete student
// @Description Deletes the student and the login paired with it
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteStudentResponse} "Student deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.Delete(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DeleteStudentResponse{Student: student}, "Student deleted successfully"))
}

// UpdateAttendance sets a student's attendance
// @Summary Update attendance
// @Description Sets the attendance percentage. A missing % sign is added.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateAttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Attendance updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/attendance [put]
func (c *StudentController) UpdateAttendance(ctx *gin.Context) {
	var req dto.UpdateAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	c.modify(ctx, models.StudentUpdate{Attendance: &req.Attendance}, func(id uuid.UUID) (*models.Student, error) {
		return c.studentService.UpdateAttendance(ctx.Request.Context(), id, req.Attendance)
	})
}

// UpdateGrades sets a student's cgpa
// @Summary Update grades
// @Description Sets the cgpa of a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateGradeRequest true "CGPA"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Grades updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/grades [put]
func (c *StudentController) UpdateGrades(ctx *gin.Context) {
	var req dto.UpdateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	c.modify(ctx, models.StudentUpdate{CGPA: &req.CGPA}, func(id uuid.UUID) (*models.Student, error) {
		return c.studentService.UpdateGrade(ctx.Request.Context(), id, req.CGPA)
	})
}

// modify loads the target student, checks the caller may apply upd and then runs apply
func (c *StudentController) modify(ctx *gin.Context, upd models.StudentUpdate, apply func(id uuid.UUID) (*models.Student, error)) {
	caller, ok := c.caller(ctx)
	if !ok {
		return
	}

	student, ok := c.loadStudent(ctx)
	if !ok {
		return
	}

	if err := c.authorizer.ValidateModifyStudent(caller, student, upd); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := apply(student.ID)
	if err != nil {
		c.logger.Warn().Err(err).Str("studentID", student.ID.String()).Msg("Failed to update student")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(updated, "Student updated successfully"))
}

func (c *StudentController) caller(ctx *gin.Context) (*models.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return identity, true
}

func (c *StudentController) loadStudent(ctx *gin.Context) (*models.Student, bool) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return nil, false
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return student, true
}

// parseStudentID reads the :id parameter. An id that is not a UUID can never match, so it is a 404.
func parseStudentID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return uuid.Nil, false
	}
	return id, true
}
