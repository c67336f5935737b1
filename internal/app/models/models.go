package models

// Role defines the user role type
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Course is the programme a student is enrolled in
type Course string

const (
	CourseComputerScience Course = "Computer Science"
	CourseElectronics     Course = "Electronics"
	CourseMechanical      Course = "Mechanical"
	CourseCivil           Course = "Civil"
	CourseElectrical      Course = "Electrical"
)

// Courses lists every accepted course in display order
var Courses = []Course{
	CourseComputerScience,
	CourseElectronics,
	CourseMechanical,
	CourseCivil,
	CourseElectrical,
}

// Valid reports whether c is one of the fixed courses
func (c Course) Valid() bool {
	for _, known := range Courses {
		if c == known {
			return true
		}
	}
	return false
}

const (
	MinSemester = 1
	MaxSemester = 8

	DefaultAttendance = "0%"
	DefaultCGPA       = "0.0"
)
