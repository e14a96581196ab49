package app

import (
	"github.com/lgdx/analytics-backend/internal/handlers"
	"github.com/lgdx/analytics-backend/internal/logger"
)

type Handlers struct {
	Analytics *handlers.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Analytics: handlers.NewAnalyticsHandler(
			log,
			services.Analytics,
			services.Metrics,
			services.TimeSlots,
			services.Patterns,
			services.Predictions,
			services.Recommendations,
			services.Insights,
			services.DataFetch,
		),
	}
}
