package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentrecords/internal/app/models/dto"
)

// HandleBindingError answers 400 for a request body that failed to bind or validate
func HandleBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		errorDetail = errorDetail.WithDetails(FieldErrors(validationErrs))
		if len(validationErrs) == 1 {
			errorDetail = errorDetail.WithField(validationErrs[0].Field())
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
	errorDetail = errorDetail.WithDetails(err.Error())
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// FieldErrors converts validator errors into field-level messages
func FieldErrors(errs validator.ValidationErrors) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, dto.FieldError{Field: e.Field(), Message: formatValidationError(e)})
	}
	return out
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "isdefault":
		return e.Field() + " cannot be changed"
	case "datetime":
		return e.Field() + " must be a date in YYYY-MM-DD format"
	case "usn":
		return e.Field() + " must be an alphanumeric USN"
	case "course":
		return e.Field() + " must be one of: Computer Science, Electronics, Mechanical, Civil, Electrical"
	case "attendance":
		return e.Field() + " must be a percentage between 0% and 100%"
	case "cgpa":
		return e.Field() + " must be a number between 0 and 10"
	case "role":
		return e.Field() + " must be one of: admin, teacher, student"
	case "bcryptlen":
		return e.Field() + " must be at most 72 bytes"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
