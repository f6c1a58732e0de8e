package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// NewHTTPServer binds the router to HOST:PORT, optionally accepting
// cleartext HTTP/2. Provider calls can take a while so only header reads time out.
func NewHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.HTTP.HTTP2Enabled {
		server.Handler = h2c.NewHandler(router, &http2.Server{})
	}

	return server
}

func Provide(i *do.Injector) (*http.Server, error) {
	return NewHTTPServer(do.MustInvoke[*config.Config](i), do.MustInvoke[*gin.Engine](i)), nil
}
