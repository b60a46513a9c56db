package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter builds the gin engine. metrics may be nil to omit /metrics.
func NewRouter(h *Handler, metrics http.Handler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(logger))

	r.GET("/healthz", h.Health)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/enter", h.Enter)
		v1.POST("/exit", h.Exit)
		v1.POST("/report", h.Report)
		v1.GET("/sessions", h.ListSessions)
	}

	return r
}
