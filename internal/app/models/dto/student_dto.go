package dto

import (
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
)

// CreateStudentRequest represents the fields of a new student record
type CreateStudentRequest struct {
	Usn             string `json:"usn" binding:"required,usn" example:"1RV20CS010"`
	Name            string `json:"name" binding:"required,min=2,max=100" example:"Priya Rao"`
	Email           string `json:"email" binding:"required,email" example:"priya.r@rvce.edu.in"`
	Phone           string `json:"phone" binding:"required,max=20" example:"9123456780"`
	Course          string `json:"course" binding:"required,course" example:"Mechanical"`
	Semester        int    `json:"semester" binding:"required,min=1,max=8" example:"3"`
	Address         string `json:"address" binding:"omitempty,max=255"`
	Dob             string `json:"dob" binding:"omitempty,datetime=2006-01-02" example:"2003-07-14"`
	FatherName      string `json:"fatherName" binding:"omitempty,max=100"`
	MotherName      string `json:"motherName" binding:"omitempty,max=100"`
	Attendance      string `json:"attendance" binding:"omitempty,attendance" example:"0%"`
	CGPA            string `json:"cgpa" binding:"omitempty,cgpa" example:"0.0"`
	FeesPaid        bool   `json:"feesPaid"`
	AssignedTeacher string `json:"assignedTeacher" binding:"omitempty,max=50" example:"teacher"`
}

// ToModel converts the request into a Student with a normalized usn
func (r *CreateStudentRequest) ToModel() *models.Student {
	return &models.Student{
		Usn:             strings.ToUpper(strings.TrimSpace(r.Usn)),
		Name:            strings.TrimSpace(r.Name),
		Email:           strings.TrimSpace(r.Email),
		Phone:           r.Phone,
		Course:          models.Course(r.Course),
		Semester:        r.Semester,
		Address:         r.Address,
		Dob:             r.Dob,
		FatherName:      r.FatherName,
		MotherName:      r.MotherName,
		Attendance:      r.Attendance,
		CGPA:            r.CGPA,
		FeesPaid:        r.FeesPaid,
		AssignedTeacher: strings.TrimSpace(r.AssignedTeacher),
	}
}

// ListStudentsQuery narrows the student listing. Both parameters are optional.
type ListStudentsQuery struct {
	Course   string `form:"course" binding:"omitempty,course" example:"Computer Science"`
	Semester int    `form:"semester" binding:"omitempty,min=1,max=8" example:"6"`
}

// ToFilter converts the query into a StudentFilter
func (q *ListStudentsQuery) ToFilter() models.StudentFilter {
	var filter models.StudentFilter
	if q.Course != "" {
		course := models.Course(q.Course)
		filter.Course = &course
	}
	if q.Semester != 0 {
		semester := q.Semester
		filter.Semester = &semester
	}
	return filter
}

// UpdateStudentRequest carries a partial update. Absent fields are left unchanged.
// usn and createdAt are immutable and rejected when present.
type UpdateStudentRequest struct {
	Usn             *string `json:"usn,omitempty" binding:"isdefault" swaggerignore:"true"`
	CreatedAt       *string `json:"createdAt,omitempty" binding:"isdefault" swaggerignore:"true"`
	Name            *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Email           *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Course          *string `json:"course,omitempty" binding:"omitempty,course"`
	Semester        *int    `json:"semester,omitempty" binding:"omitempty,min=1,max=8"`
	Address         *string `json:"address,omitempty" binding:"omitempty,max=255"`
	Dob             *string `json:"dob,omitempty" binding:"omitempty,datetime=2006-01-02"`
	FatherName      *string `json:"fatherName,omitempty" binding:"omitempty,max=100"`
	MotherName      *string `json:"motherName,omitempty" binding:"omitempty,max=100"`
	Attendance      *string `json:"attendance,omitempty" binding:"omitempty,attendance"`
	CGPA            *string `json:"cgpa,omitempty" binding:"omitempty,cgpa"`
	FeesPaid        *bool   `json:"feesPaid,omitempty"`
	AssignedTeacher *string `json:"assignedTeacher,omitempty" binding:"omitempty,max=50"`
}

// ToUpdate converts the request into a StudentUpdate
func (r *UpdateStudentRequest) ToUpdate() models.StudentUpdate {
	upd := models.StudentUpdate{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Semester:        r.Semester,
		Address:         r.Address,
		Dob:             r.Dob,
		FatherName:      r.FatherName,
		MotherName:      r.MotherName,
		Attendance:      r.Attendance,
		CGPA:            r.CGPA,
		FeesPaid:        r.FeesPaid,
		AssignedTeacher: r.AssignedTeacher,
	}
	if r.Course != nil {
		course := models.Course(*r.Course)
		upd.Course = &course
	}
	return upd
}

// UpdateAttendanceRequest sets the attendance of a student
type UpdateAttendanceRequest struct {
	Attendance string `json:"attendance" binding:"required,attendance" example:"92%"`
}

// UpdateGradeRequest sets the cgpa of a student
type UpdateGradeRequest struct {
	CGPA string `json:"cgpa" binding:"required,cgpa" example:"9.1"`
}

// CreateStudentResponse represents a created student and the notice about its paired account
type CreateStudentResponse struct {
	Student *models.Student `json:"student"`
	Notice  string          `json:"notice" example:"Student login created with username 1RV20CS010. A default password was set and must be changed at first login."`
}

// DeleteStudentResponse confirms a deletion
type DeleteStudentResponse struct {
	Student *models.Student `json:"student"`
}
