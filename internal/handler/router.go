package handler

import (
	"fmt"
	"log/slog"

	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/dmorgan81/lookalike/internal/httperror"
	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/dmorgan81/lookalike/internal/metrics"
	"github.com/dmorgan81/lookalike/internal/middleware"
	"github.com/dmorgan81/lookalike/internal/static"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

func NewRouter(i *do.Injector) (*gin.Engine, error) {
	return NewEngine(
		do.MustInvoke[*config.Config](i),
		do.MustInvoke[*slog.Logger](i),
		do.MustInvoke[*Handler](i),
		do.MustInvoke[*metrics.Recorder](i),
	), nil
}

// NewEngine builds the full route table. Unmatched paths fall through to
// the static file handler.
func NewEngine(cfg *config.Config, logger *slog.Logger, h *Handler, recorder *metrics.Recorder) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			httperror.Abort(c, lookalike.NewInternalError(fmt.Errorf("panic: %v", recovered)))
		}),
	)

	router.POST("/api/lookalike", h.Lookalike)
	RegisterHealthRoutes(router, cfg, recorder)
	router.NoRoute(gin.WrapH(static.New(cfg.HTTP.StaticRoot)))

	return router
}
