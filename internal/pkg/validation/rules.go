package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentrecords/internal/app/models"
)

// Validation rule patterns
var (
	// UsnPattern accepts the alphanumeric university serial number in any case
	UsnPattern = `^[A-Za-z0-9]{4,20}$`

	// AttendancePattern accepts "85", "85%" or "92.5%"
	AttendancePattern = `^\d{1,3}(\.\d{1,2})?%?$`

	// CGPAPattern accepts "8", "8.9" or "9.25"
	CGPAPattern = `^\d{1,2}(\.\d{1,2})?$`

	MaxAttendance = 100.0
	MaxCGPA       = 10.0

	// MaxPasswordBytes is the longest input bcrypt accepts
	MaxPasswordBytes = 72
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Usn        *regexp.Regexp
	Attendance *regexp.Regexp
	CGPA       *regexp.Regexp
}{
	Usn:        regexp.MustCompile(UsnPattern),
	Attendance: regexp.MustCompile(AttendancePattern),
	CGPA:       regexp.MustCompile(CGPAPattern),
}

// IsValidUsn reports whether s looks like a usn
func IsValidUsn(s string) bool {
	return CompiledPatterns.Usn.MatchString(strings.TrimSpace(s))
}

// IsValidAttendance reports whether s is a percentage between 0 and 100
func IsValidAttendance(s string) bool {
	if !CompiledPatterns.Attendance.MatchString(s) {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	return err == nil && v >= 0 && v <= MaxAttendance
}

// IsValidCGPA reports whether s is a grade point average between 0 and 10
func IsValidCGPA(s string) bool {
	if !CompiledPatterns.CGPA.MatchString(s) {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v >= 0 && v <= MaxCGPA
}

// IsValidPasswordLength reports whether s fits into bcrypt's input limit. The limit counts bytes.
func IsValidPasswordLength(s string) bool {
	return len(s) <= MaxPasswordBytes
}

// NormalizeAttendance appends the percent sign when it is missing
func NormalizeAttendance(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return s
	}
	return s + "%"
}

// Register adds the custom rules (usn, course, attendance, cgpa, role, bcryptlen) to v.
// Field errors are reported under their json names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"usn": func(fl validator.FieldLevel) bool {
			return IsValidUsn(fl.Field().String())
		},
		"course": func(fl validator.FieldLevel) bool {
			return models.Course(fl.Field().String()).Valid()
		},
		"attendance": func(fl validator.FieldLevel) bool {
			return IsValidAttendance(strings.TrimSpace(fl.Field().String()))
		},
		"cgpa": func(fl validator.FieldLevel) bool {
			return IsValidCGPA(strings.TrimSpace(fl.Field().String()))
		},
		"role": func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		},
		"bcryptlen": func(fl validator.FieldLevel) bool {
			return IsValidPasswordLength(fl.Field().String())
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin registers the custom rules on gin's default validator engine
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
