package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the login identity stored in the 'users' table
type User struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Username           string    `json:"username" db:"username" example:"teacher"`
	Password           string    `json:"-" db:"password"`
	Role               Role      `json:"role" db:"role" example:"teacher"`
	Name               string    `json:"name" db:"name" example:"Dr. Sarah Johnson"`
	Email              *string   `json:"email,omitempty" db:"email" example:"sarah.j@college.edu"`
	Department         *string   `json:"department,omitempty" db:"department" example:"Computer Science"`
	Usn                *string   `json:"usn,omitempty" db:"usn" example:"1RV20CS001"`
	Course             *string   `json:"course,omitempty" db:"course" example:"Computer Science"`
	Semester           *int      `json:"semester,omitempty" db:"semester" example:"5"`
	MustChangePassword bool      `json:"mustChangePassword" db:"must_change_password"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// Identity is a User without password material
type Identity struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username" example:"teacher"`
	Role               Role      `json:"role" example:"teacher"`
	Name               string    `json:"name" example:"Dr. Sarah Johnson"`
	Email              *string   `json:"email,omitempty" example:"sarah.j@college.edu"`
	Department         *string   `json:"department,omitempty"`
	Usn                *string   `json:"usn,omitempty"`
	Course             *string   `json:"course,omitempty"`
	Semester           *int      `json:"semester,omitempty"`
	MustChangePassword bool      `json:"mustChangePassword"`
}

// Identity strips the password hash from u
func (u *User) Identity() *Identity {
	return &Identity{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               u.Role,
		Name:               u.Name,
		Email:              u.Email,
		Department:         u.Department,
		Usn:                u.Usn,
		Course:             u.Course,
		Semester:           u.Semester,
		MustChangePassword: u.MustChangePassword,
	}
}
