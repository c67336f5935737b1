package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware("test-api"))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", Handler())

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("test-api", "GET /students/:id", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/abc", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("test-api", "GET /students/:id", "404"))
	assert.Equal(t, before+1, after)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "requests_total")
}

func TestRecordStudentOperation(t *testing.T) {
	ok := StudentOperations.WithLabelValues("create", "success")
	failed := StudentOperations.WithLabelValues("create", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordStudentOperation("create", nil)
	RecordStudentOperation("create", errors.New("duplicate"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}
