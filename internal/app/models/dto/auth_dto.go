package dto

import "github.com/yigit/studentrecords/internal/app/models"

// LoginRequest represents login credentials together with the role the caller claims
type LoginRequest struct {
	Username string      `json:"username" binding:"required" example:"teacher"`
	Password string      `json:"password" binding:"required" example:"teacher123"`
	Role     models.Role `json:"role" binding:"required,role" example:"teacher" enums:"admin,teacher,student"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"tokenType" example:"Bearer"`
	ExpiresIn int64            `json:"expiresIn" example:"86400"`
	User      *models.Identity `json:"user"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username   string      `json:"username" binding:"required,min=3,max=50" example:"teacher2"`
	Password   string      `json:"password" binding:"required,min=6,bcryptlen" example:"secret123"`
	Role       models.Role `json:"role" binding:"required,role" example:"teacher" enums:"admin,teacher,student"`
	Name       string      `json:"name" binding:"required,min=2,max=100" example:"Prof. Alan Turing"`
	Email      string      `json:"email" binding:"omitempty,email" example:"alan.t@college.edu"`
	Department string      `json:"department,omitempty" binding:"omitempty,max=100" example:"Computer Science"`
}

// RegisterResponse carries the identifier of the new user
type RegisterResponse struct {
	UserID string `json:"userId" example:"3f1c2a9e-6b0d-4a53-9f61-7b2d6c1e8a40"`
}

// MeResponse wraps the identity of the caller
type MeResponse struct {
	User *models.Identity `json:"user"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,bcryptlen"`
}
