package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/metrics"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// AuthOptions holds registration policy
type AuthOptions struct {
	AllowAdminRegistration bool
}

// DemoAccount is a login created by Seed when absent
type DemoAccount struct {
	Username   string
	Password   string
	Role       models.Role
	Name       string
	Email      string
	Department string
	Usn        string
	Course     models.Course
	Semester   int
}

// DemoAccounts are the demonstration logins, one per role
var DemoAccounts = []DemoAccount{
	{
		Username: "admin",
		Password: "admin123",
		Role:     models.RoleAdmin,
		Name:     "System Administrator",
		Email:    "admin@college.edu",
	},
	{
		Username:   "teacher",
		Password:   "teacher123",
		Role:       models.RoleTeacher,
		Name:       "Dr. Sarah Johnson",
		Email:      "sarah.j@college.edu",
		Department: "Computer Science",
	},
	{
		Username: "student",
		Password: "student123",
		Role:     models.RoleStudent,
		Name:     "John Smith",
		Email:    "john.smith@college.edu",
		Usn:      "1RV20CS001",
		Course:   models.CourseComputerScience,
		Semester: 5,
	},
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo    UserStore
	studentRepo StudentStore
	jwtService  *auth.JWTService
	hasher      *auth.PasswordHasher
	opts        AuthOptions
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserStore,
	studentRepo StudentStore,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	opts AuthOptions,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		jwtService:  jwtService,
		hasher:      hasher,
		opts:        opts,
		logger:      logger,
	}
}

// Login authenticates a user against the claimed role and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (resp *dto.LoginResponse, err error) {
	defer func() { metrics.RecordLogin(string(req.Role), err) }()

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsernameAndRole(ctx, username, req.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Debug().Str("username", username).Str("role", string(req.Role)).Msg("Login for unknown username and role")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storeError(err)
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		s.logger.Debug().Str("username", username).Msg("Login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("role", string(user.Role)).Msg("User logged in")

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      user.Identity(),
	}, nil
}

// Register creates a login identity and returns its identifier
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]string{"role": "must be one of admin, teacher, student"})
	}
	if !validation.IsValidPasswordLength(req.Password) {
		return nil, passwordTooLong("password")
	}
	if req.Role == models.RoleAdmin && !s.opts.AllowAdminRegistration {
		return nil, apperrors.NewForbiddenError("admin accounts cannot be self-registered")
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Role:     req.Role,
		Name:     strings.TrimSpace(req.Name),
		Email:    optional(req.Email),
	}

	switch req.Role {
	case models.RoleStudent:
		// A student login is the username-equals-usn half of a student pair
		usn := strings.ToUpper(user.Username)
		student, err := s.studentRepo.GetByUsn(ctx, usn)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewValidationError("no student record for this username",
					map[string]string{"username": "must be the usn of an existing student"})
			}
			return nil, storeError(err)
		}
		course := string(student.Course)
		semester := student.Semester
		user.Username = usn
		user.Usn = &usn
		user.Course = &course
		user.Semester = &semester
	case models.RoleTeacher:
		user.Department = optional(req.Department)
	}

	exists, err := s.userRepo.UsernameExists(ctx, user.Username)
	if err != nil {
		return nil, storeError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateUser
	}

	user.Password, err = s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err)
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("role", string(user.Role)).Msg("User registered")
	return &dto.RegisterResponse{UserID: user.ID.String()}, nil
}

// Identify resolves a bearer token to the current identity of its user
func (s *AuthService) Identify(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(err)
	}

	return user.Identity(), nil
}

// ChangePassword replaces the password of userID and clears the forced-change flag
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	if req.NewPassword == req.CurrentPassword {
		return apperrors.NewValidationError("new password must differ from the current one",
			map[string]string{"newPassword": "must differ from currentPassword"})
	}

	if !validation.IsValidPasswordLength(req.NewPassword) {
		return passwordTooLong("newPassword")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return storeError(err)
	}

	if !s.hasher.Compare(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash, false); err != nil {
		return storeError(err)
	}

	s.logger.Info().Str("userID", userID.String()).Msg("Password changed")
	return nil
}

// Seed creates the demo accounts that do not exist yet. It returns how many were created.
func (s *AuthService) Seed(ctx context.Context) (int, error) {
	created := 0
	var errs []error

	for _, account := range DemoAccounts {
		exists, err := s.userRepo.UsernameExists(ctx, account.Username)
		if err != nil {
			errs = append(errs, fmt.Errorf("check %s: %w", account.Username, err))
			continue
		}
		if exists {
			continue
		}

		hash, err := s.hasher.Hash(account.Password)
		if err != nil {
			errs = append(errs, fmt.Errorf("hash %s: %w", account.Username, err))
			continue
		}

		user := &models.User{
			Username:   account.Username,
			Password:   hash,
			Role:       account.Role,
			Name:       account.Name,
			Email:      optional(account.Email),
			Department: optional(account.Department),
			Usn:        optional(account.Usn),
		}
		if account.Course != "" {
			course := string(account.Course)
			user.Course = &course
		}
		if account.Semester > 0 {
			semester := account.Semester
			user.Semester = &semester
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", account.Username, err))
			continue
		}
		created++
		s.logger.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("Demo account created")
	}

	return created, errors.Join(errs...)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func passwordTooLong(field string) error {
	return apperrors.NewValidationError("password too long",
		map[string]string{field: fmt.Sprintf("must be at most %d bytes", validation.MaxPasswordBytes)})
}
