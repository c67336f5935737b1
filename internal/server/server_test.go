package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownWithoutStartedServer(t *testing.T) {
	s := &Server{logger: zerolog.Nop()}
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestShutdownDrainsHTTPServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ts := httptest.NewUnstartedServer(router)
	ts.Start()
	defer ts.Close()

	s := &Server{logger: zerolog.Nop(), router: router, http: ts.Config}

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Shutdown(context.Background()))

	_, err = http.Get(ts.URL + "/ping")
	assert.Error(t, err)
}
