package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

var userColumns = []string{
	"id", "username", "password", "role", "name", "email", "department",
	"usn", "course", "semester", "must_change_password", "created_at", "updated_at",
}

// UserRepository is the credential store
type UserRepository struct {
	conn ConnProvider
	sb   squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(conn ConnProvider) *UserRepository {
	return &UserRepository{
		conn: conn,
		sb:   newStatementBuilder(),
	}
}

// Create inserts user and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("users").
		Columns("id", "username", "password", "role", "name", "email", "department",
			"usn", "course", "semester", "must_change_password").
		Values(user.ID, user.Username, user.Password, user.Role, user.Name, user.Email, user.Department,
			user.Usn, user.Course, user.Semester, user.MustChangePassword).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}

	err = r.conn.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, usersUsernameKey):
			return apperrors.ErrDuplicateUser
		case dberrors.IsDuplicateConstraintError(err, usersEmailKey):
			return apperrors.ErrDuplicateEmail
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error creating user")
		return fmt.Errorf("%w: create user", apperrors.ErrStoreUnavailable)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a user by username regardless of role
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// GetByUsernameAndRole retrieves the user matching both username and role
func (r *UserRepository) GetByUsernameAndRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username, "role": role})
}

// UsernameExists checks if a username is taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.conn.Conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Error checking username")
		return false, fmt.Errorf("%w: check username", apperrors.ErrStoreUnavailable)
	}
	return exists, nil
}

// DeleteByUsername removes the user with username. It reports whether a row was deleted.
func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	tag, err := r.conn.Conn(ctx).Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Error deleting user")
		return false, fmt.Errorf("%w: delete user", apperrors.ErrStoreUnavailable)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePassword stores a new password hash and sets the forced-change flag
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, mustChange bool) error {
	tag, err := r.conn.Conn(ctx).Exec(ctx, `
		UPDATE users
		SET password = $1, must_change_password = $2, updated_at = NOW()
		WHERE id = $3`,
		hash, mustChange, id)
	if err != nil {
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error updating password")
		return fmt.Errorf("%w: update password", apperrors.ErrStoreUnavailable)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	user := &models.User{}
	err = r.conn.Conn(ctx).QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Username, &user.Password, &user.Role, &user.Name, &user.Email, &user.Department,
		&user.Usn, &user.Course, &user.Semester, &user.MustChangePassword, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error retrieving user")
		return nil, fmt.Errorf("%w: get user", apperrors.ErrStoreUnavailable)
	}

	return user, nil
}
