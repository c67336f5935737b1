package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
)

// Pinger reports whether the store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupHealth registers the liveness and readiness endpoints
func SetupHealth(router *gin.Engine, store Pinger) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unreachable").
				WithSeverity(dto.ErrorSeverityCritical)
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}

		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok", "database": "up"}, ""))
	})
}
