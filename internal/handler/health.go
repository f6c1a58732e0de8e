package handler

import (
	"net/http"

	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/dmorgan81/lookalike/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type HealthResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	TransportMode string `json:"transport_mode"`
}

// RegisterHealthRoutes adds the liveness probe and the Prometheus endpoint.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, recorder *metrics.Recorder) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:        "ok",
			Provider:      string(cfg.Provider),
			Model:         cfg.Model(),
			TransportMode: lo.Ternary(cfg.HTTP.HTTP2Enabled, "h2c", "h1"),
		})
	})

	router.GET("/metrics", gin.WrapH(recorder.Handler()))
}
