package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// AccountSeeder creates the demo logins
type AccountSeeder interface {
	Seed(ctx context.Context) (int, error)
}

// StudentDirectory is the part of the directory service the seed uses
type StudentDirectory interface {
	SearchByUsn(ctx context.Context, usn string) (*models.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.CreateStudentResponse, error)
}

// SampleStudents is the initial student data set
var SampleStudents = []dto.CreateStudentRequest{
	{
		Usn:             "1RV20CS001",
		Name:            "John Smith",
		Email:           "john.smith@rvce.edu.in",
		Phone:           "9876543210",
		Course:          string(models.CourseComputerScience),
		Semester:        5,
		Address:         "123 MG Road, Bangalore",
		Dob:             "2002-05-15",
		FatherName:      "Robert Smith",
		MotherName:      "Mary Smith",
		Attendance:      "85%",
		CGPA:            "8.9",
		FeesPaid:        true,
		AssignedTeacher: "teacher",
	},
	{
		Usn:             "1RV20CS002",
		Name:            "Emma Johnson",
		Email:           "emma.j@rvce.edu.in",
		Phone:           "8765432109",
		Course:          string(models.CourseComputerScience),
		Semester:        5,
		Address:         "456 Brigade Road, Bangalore",
		Dob:             "2002-08-22",
		FatherName:      "David Johnson",
		MotherName:      "Sarah Johnson",
		Attendance:      "92%",
		CGPA:            "9.2",
		FeesPaid:        true,
		AssignedTeacher: "teacher",
	},
	{
		Usn:             "1RV20CS003",
		Name:            "Michael Brown",
		Email:           "michael.b@rvce.edu.in",
		Phone:           "7654321098",
		Course:          string(models.CourseElectronics),
		Semester:        4,
		Address:         "789 Indiranagar, Bangalore",
		Dob:             "2003-01-30",
		FatherName:      "James Brown",
		MotherName:      "Lisa Brown",
		Attendance:      "78%",
		CGPA:            "7.8",
		FeesPaid:        false,
		AssignedTeacher: "teacher2",
	},
}

// CreateDefaultData creates the sample students and the demo accounts that don't exist yet.
// Errors are collected so one failure does not stop the rest.
func CreateDefaultData(ctx context.Context, accounts AccountSeeder, students StudentDirectory, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Students/Accounts)...")
	var finalErr error

	for i := range SampleStudents {
		req := SampleStudents[i]

		_, err := students.SearchByUsn(ctx, req.Usn)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			lgr.Error().Err(err).Str("usn", req.Usn).Msg("Error checking sample student")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		if _, err := students.Create(ctx, &req); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Str("usn", req.Usn).Msg("Error creating sample student")
			finalErr = errors.Join(finalErr, fmt.Errorf("sample student %s: %w", req.Usn, err))
			continue
		}
		lgr.Info().Str("usn", req.Usn).Msg("Sample student created")
	}

	created, err := accounts.Seed(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo accounts")
		finalErr = errors.Join(finalErr, err)
	}
	lgr.Info().Int("created", created).Msg("Demo accounts checked")

	return finalErr
}
