package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/mocks"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *mocks.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterWithGin())

	service := mocks.NewAuthService(t)
	controller := NewAuthController(service, zerolog.Nop())

	r := gin.New()
	r.POST("/register", controller.Register)
	r.GET("/me", controller.Me)
	return r, service
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		r, service := newAuthRouter(t)
		service.On("Register", mock.Anything, mock.MatchedBy(func(req *dto.RegisterRequest) bool {
			return req.Username == "teacher2" && req.Role == models.RoleTeacher
		})).Return(&dto.RegisterResponse{UserID: "3f1c2a9e-6b0d-4a53-9f61-7b2d6c1e8a40"}, nil)

		w := postJSON(r, "/register", `{"username":"teacher2","password":"secret123","role":"teacher","name":"Alan Turing"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":"3f1c2a9e-6b0d-4a53-9f61-7b2d6c1e8a40"`)
	})

	t.Run("duplicate username", func(t *testing.T) {
		r, service := newAuthRouter(t)
		service.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateUser)

		w := postJSON(r, "/register", `{"username":"teacher","password":"secret123","role":"teacher","name":"Dup"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), string(dto.ErrorCodeResourceAlreadyExists))
	})

	t.Run("admin registration denied", func(t *testing.T) {
		r, service := newAuthRouter(t)
		service.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.NewForbiddenError("admin accounts cannot be self-registered"))

		w := postJSON(r, "/register", `{"username":"root","password":"secret123","role":"admin","name":"Root"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("short password never reaches the service", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		w := postJSON(r, "/register", `{"username":"teacher2","password":"123","role":"teacher","name":"Alan Turing"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "password must be at least 6")
	})

	t.Run("multibyte password over the bcrypt limit is rejected", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		body := `{"username":"teacher2","password":"` + strings.Repeat("é", 40) + `","role":"teacher","name":"Alan Turing"}`
		w := postJSON(r, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "password must be at most 72 bytes")
	})
}

func TestAuthController_MeWithoutIdentity(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
