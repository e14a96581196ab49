package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/lgdx/analytics-backend/internal/handlers"
	"github.com/lgdx/analytics-backend/internal/middleware"
)

type RouterConfig struct {
	AnalyticsHandler *handlers.AnalyticsHandler
	RequestLog       *middleware.RequestLog
	AllowOrigins     []string
	ServiceName      string
	TracingEnabled   bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLog != nil {
		router.Use(cfg.RequestLog.Handler())
	}
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		analytics := api.Group("/analytics/:user_id")
		analytics.GET("/comprehensive", cfg.AnalyticsHandler.GetComprehensiveAnalysis)
		analytics.GET("/quick-wins", cfg.AnalyticsHandler.GetQuickWins)
		analytics.GET("/risk", cfg.AnalyticsHandler.GetRiskAssessment)
		analytics.GET("/growth-path", cfg.AnalyticsHandler.GetGrowthPath)
		analytics.GET("/metrics", cfg.AnalyticsHandler.GetLearningMetrics)
		analytics.GET("/timeslots", cfg.AnalyticsHandler.GetTimeSlots)
		analytics.GET("/weekdays", cfg.AnalyticsHandler.GetWeekdayPerformance)
		analytics.GET("/patterns", cfg.AnalyticsHandler.GetPatterns)
		analytics.GET("/schedule", cfg.AnalyticsHandler.GetOptimalSchedule)
		analytics.GET("/tips", cfg.AnalyticsHandler.GetPersonalizedTips)
		analytics.GET("/predictions", cfg.AnalyticsHandler.GetPredictions)
		analytics.GET("/recommendations", cfg.AnalyticsHandler.GetRecommendations)
		analytics.GET("/insights", cfg.AnalyticsHandler.GetInsights)
		analytics.GET("/data", cfg.AnalyticsHandler.GetAnalyticsData)
	}

	return router
}
