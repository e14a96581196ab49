package app

import (
	"github.com/gin-gonic/gin"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/middleware"
	"github.com/lgdx/analytics-backend/internal/observability"
	"github.com/lgdx/analytics-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AnalyticsHandler: handlerset.Analytics,
		RequestLog:       middleware.NewRequestLog(log),
		AllowOrigins:     cfg.AllowOrigins,
		ServiceName:      "analytics-backend",
		TracingEnabled:   observability.Enabled(),
	})
}
