package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
)

const identityKey = "identity"

// Identifier resolves a bearer token to the identity of its user
type Identifier interface {
	Identify(ctx context.Context, token string) (*models.Identity, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	identifier Identifier
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(identifier Identifier) *AuthMiddleware {
	return &AuthMiddleware{identifier: identifier}
}

// JWTAuth middleware for JWT token validation. The identity is re-read from the store on every request.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		identity, err := m.identifier.Identify(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenInvalid) {
				errorCode := dto.ErrorCodeInvalidToken
				errorDetails := "Invalid token"
				if errors.Is(err, apperrors.ErrTokenExpired) {
					errorCode = dto.ErrorCodeExpiredToken
					errorDetails = "Token has expired"
				}

				errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
				errorDetail = errorDetail.WithDetails(errorDetails)
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}

			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the listed roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("User information not found")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// PasswordChangeRequired blocks callers that still have to replace their default password
func (m *AuthMiddleware) PasswordChangeRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if ok && identity.MustChangePassword {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodePasswordChangeRequired, "Password change required")
			errorDetail = errorDetail.WithDetails("Change your password at /api/v1/auth/change-password before continuing")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentIdentity returns the identity stored by JWTAuth
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*models.Identity)
	return identity, ok && identity != nil
}
