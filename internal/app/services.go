package app

import (
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/services"
)

type Services struct {
	Metrics         services.MetricsService
	TimeSlots       services.TimeSlotService
	Patterns        services.PatternService
	Predictions     services.PredictionService
	Recommendations services.RecommendationService
	Insights        services.InsightService
	Analytics       services.AnalyticsService
	DataFetch       services.DataFetchService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")
	tuning := cfg.Tuning

	metrics := services.NewMetricsService(db, log, reposet.Reflection, reposet.Activity, tuning)
	timeSlots := services.NewTimeSlotService(db, log, reposet.Reflection, tuning)
	patterns := services.NewPatternService(db, log, reposet.Reflection, reposet.Activity, tuning)
	predictions := services.NewPredictionService(db, log, reposet.Reflection, reposet.Activity, patterns, tuning)
	recommendations := services.NewRecommendationService(db, log, metrics, patterns, predictions, tuning)
	insights := services.NewInsightService(db, log, metrics, timeSlots, patterns, tuning)
	analytics := services.NewAnalyticsService(db, log, insights, patterns, predictions, recommendations, tuning)
	dataFetch := services.NewDataFetchService(db, log, reposet.Reflection, reposet.Activity, tuning)

	return Services{
		Metrics:         metrics,
		TimeSlots:       timeSlots,
		Patterns:        patterns,
		Predictions:     predictions,
		Recommendations: recommendations,
		Insights:        insights,
		Analytics:       analytics,
		DataFetch:       dataFetch,
	}
}
