package server

import (
	"net/http"
	"testing"

	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewHTTPServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	srv := NewHTTPServer(&config.Config{HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 3000}}, router)
	assert.Equal(t, "127.0.0.1:3000", srv.Addr)
	assert.Same(t, router, srv.Handler)

	srv = NewHTTPServer(&config.Config{HTTP: config.HTTPConfig{Host: "0.0.0.0", Port: 8080, HTTP2Enabled: true}}, router)
	assert.Equal(t, "0.0.0.0:8080", srv.Addr)
	_, isEngine := srv.Handler.(*gin.Engine)
	assert.False(t, isEngine)
	assert.Implements(t, (*http.Handler)(nil), srv.Handler)
}
