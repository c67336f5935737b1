package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidAttendance(t *testing.T) {
	for _, ok := range []string{"0%", "85%", "92.5%", "100%", "78"} {
		assert.True(t, IsValidAttendance(ok), ok)
	}
	for _, bad := range []string{"", "101%", "-5%", "eighty", "85%%", "1000"} {
		assert.False(t, IsValidAttendance(bad), bad)
	}
}

func TestIsValidCGPA(t *testing.T) {
	for _, ok := range []string{"0.0", "8.9", "9.25", "10", "7"} {
		assert.True(t, IsValidCGPA(ok), ok)
	}
	for _, bad := range []string{"", "10.5", "11", "8.999", "A+"} {
		assert.False(t, IsValidCGPA(bad), bad)
	}
}

func TestIsValidUsn(t *testing.T) {
	assert.True(t, IsValidUsn("1RV20CS001"))
	assert.True(t, IsValidUsn("1rv20cs010"))
	assert.False(t, IsValidUsn("1RV 20"))
	assert.False(t, IsValidUsn("abc"))
}

func TestIsValidPasswordLength(t *testing.T) {
	assert.True(t, IsValidPasswordLength(strings.Repeat("a", 72)))
	assert.False(t, IsValidPasswordLength(strings.Repeat("a", 73)))
	// 36 two-byte runes fit, 37 do not
	assert.True(t, IsValidPasswordLength(strings.Repeat("é", 36)))
	assert.False(t, IsValidPasswordLength(strings.Repeat("é", 37)))
}

func TestBcryptLenRule(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type payload struct {
		Password string `validate:"required,min=6,bcryptlen"`
	}
	assert.NoError(t, v.Struct(payload{Password: "secret123"}))

	err := v.Struct(payload{Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Equal(t, "bcryptlen", err.(validator.ValidationErrors)[0].Tag())
}

func TestNormalizeAttendance(t *testing.T) {
	assert.Equal(t, "92%", NormalizeAttendance("92"))
	assert.Equal(t, "92%", NormalizeAttendance(" 92% "))
	assert.Equal(t, "", NormalizeAttendance(""))
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type payload struct {
		Usn        string `validate:"required,usn"`
		Course     string `validate:"required,course"`
		Attendance string `validate:"omitempty,attendance"`
		CGPA       string `validate:"omitempty,cgpa"`
		Role       string `validate:"required,role"`
	}

	valid := payload{Usn: "1RV20CS010", Course: "Mechanical", Attendance: "92%", CGPA: "8.1", Role: "student"}
	assert.NoError(t, v.Struct(valid))

	invalid := payload{Usn: "1RV20CS010", Course: "Biology", Attendance: "120%", CGPA: "8.1", Role: "principal"}
	err := v.Struct(invalid)
	require.Error(t, err)

	var failed []string
	for _, fe := range err.(validator.ValidationErrors) {
		failed = append(failed, fe.Tag())
	}
	assert.ElementsMatch(t, []string{"course", "attendance", "role"}, failed)
}
