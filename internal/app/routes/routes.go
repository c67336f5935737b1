package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
	}
	v1.GET("/students/search/:usn", studentController.SearchByUsn)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Reachable while a password change is still pending
		authenticated.GET("/auth/me", authController.Me)
		authenticated.POST("/auth/change-password", authController.ChangePassword)
	}

	students := authenticated.Group("/students")
	students.Use(authMiddleware.PasswordChangeRequired())
	{
		students.GET("/:id", studentController.GetStudent)

		staff := students.Group("")
		staff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher))
		{
			staff.GET("", studentController.ListStudents)
			staff.GET("/teacher/:teacherRef", studentController.ListByTeacher)
			staff.PUT("/:id", studentController.UpdateStudent)
			staff.PUT("/:id/attendance", studentController.UpdateAttendance)
			staff.PUT("/:id/grades", studentController.UpdateGrades)
		}

		admin := students.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("", studentController.CreateStudent)
			admin.DELETE("/:id", studentController.DeleteStudent)
		}
	}
}
