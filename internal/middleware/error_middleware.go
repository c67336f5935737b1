package middleware

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// HandleAPIError maps an error from the service layer to its status code and error envelope
func HandleAPIError(c *gin.Context, err error) {
	var (
		status int
		detail *dto.ErrorDetail
	)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrDuplicateUsn):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Student with this USN already exists").WithField("usn")
	case errors.Is(err, apperrors.ErrDuplicateUser):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Username already exists").WithField("username")
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists").WithField("email")
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists")
	case errors.Is(err, apperrors.ErrTokenExpired):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrPasswordChangeRequired):
		status = http.StatusForbidden
		detail = dto.NewErrorDetail(dto.ErrorCodePasswordChangeRequired, "Password change required")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status = http.StatusForbidden
		detail = dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrUserNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrStudentNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Store unavailable")
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error").WithSeverity(dto.ErrorSeverityCritical)
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)
	}

	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && status < http.StatusInternalServerError {
		if customErr.Message != "" {
			detail.Message = customErr.Message
		}
		if len(customErr.Details) > 0 {
			detail = detail.WithDetails(fieldErrors(customErr.Details))
		}
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

// fieldErrors turns a field-to-message map into a list ordered by field name
func fieldErrors(details map[string]interface{}) []dto.FieldError {
	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]dto.FieldError, 0, len(fields))
	for _, field := range fields {
		message, _ := details[field].(string)
		out = append(out, dto.FieldError{Field: field, Message: field + " " + message})
	}
	return out
}
