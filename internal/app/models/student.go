package models

import (
	"time"

	"github.com/google/uuid"
)

// Student defines the academic record stored in the 'students' table
type Student struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Usn             string    `json:"usn" db:"usn" example:"1RV20CS001"`
	Name            string    `json:"name" db:"name" example:"John Smith"`
	Email           string    `json:"email" db:"email" example:"john.smith@rvce.edu.in"`
	Phone           string    `json:"phone" db:"phone" example:"9876543210"`
	Course          Course    `json:"course" db:"course" example:"Computer Science"`
	Semester        int       `json:"semester" db:"semester" example:"5"`
	Address         string    `json:"address" db:"address"`
	Dob             string    `json:"dob" db:"dob" example:"2002-05-15"`
	FatherName      string    `json:"fatherName" db:"father_name"`
	MotherName      string    `json:"motherName" db:"mother_name"`
	Attendance      string    `json:"attendance" db:"attendance" example:"85%"`
	CGPA            string    `json:"cgpa" db:"cgpa" example:"8.9"`
	FeesPaid        bool      `json:"feesPaid" db:"fees_paid"`
	AssignedTeacher string    `json:"assignedTeacher" db:"assigned_teacher" example:"teacher"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// StudentUpdate carries the fields of a partial update. Nil fields are left unchanged.
type StudentUpdate struct {
	Name            *string
	Email           *string
	Phone           *string
	Course          *Course
	Semester        *int
	Address         *string
	Dob             *string
	FatherName      *string
	MotherName      *string
	Attendance      *string
	CGPA            *string
	FeesPaid        *bool
	AssignedTeacher *string
}

// IsEmpty reports whether the update changes nothing
func (u StudentUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Course == nil &&
		u.Semester == nil && u.Address == nil && u.Dob == nil && u.FatherName == nil &&
		u.MotherName == nil && u.Attendance == nil && u.CGPA == nil && u.FeesPaid == nil &&
		u.AssignedTeacher == nil
}

// OnlyGrades reports whether the update touches attendance or cgpa and nothing else
func (u StudentUpdate) OnlyGrades() bool {
	rest := u
	rest.Attendance = nil
	rest.CGPA = nil
	return rest.IsEmpty() && !u.IsEmpty()
}

// StudentFilter narrows a student listing
type StudentFilter struct {
	AssignedTeacher *string
	Course          *Course
	Semester        *int
}
