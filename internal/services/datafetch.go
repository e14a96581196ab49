package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/repos"
	"github.com/lgdx/analytics-backend/internal/types"
)

// DataFetchService serves the raw-window view consumed by chart components:
// both record sets for the window plus a small stats block. Unlike the
// analyzers it echoes records as-is.
type DataFetchService interface {
	GetAnalyticsData(ctx context.Context, userID uuid.UUID, windowDays int) (types.AnalyticsData, error)
}

type dataFetchService struct {
	db     *gorm.DB
	log    *logger.Logger
	refl   repos.ReflectionRepo
	act    repos.ActivityRepo
	tuning Tuning
}

func NewDataFetchService(db *gorm.DB, log *logger.Logger, refl repos.ReflectionRepo, act repos.ActivityRepo, tuning Tuning) DataFetchService {
	return &dataFetchService{
		db:     db,
		log:    log.With("service", "DataFetchService"),
		refl:   refl,
		act:    act,
		tuning: tuning,
	}
}

func (s *dataFetchService) GetAnalyticsData(ctx context.Context, userID uuid.UUID, windowDays int) (types.AnalyticsData, error) {
	if windowDays <= 0 {
		windowDays = s.tuning.DefaultWindowDays
	}
	start, end := analysisWindow(windowDays)

	reflections, err := s.refl.GetByUserAndDateRange(ctx, nil, userID, start, end)
	if err != nil {
		s.log.Warn("reflection query failed, degrading to empty window", "user_id", userID.String(), "error", err)
		reflections = nil
	}
	activities, err := s.act.GetByUserAndDateRange(ctx, nil, userID, start, end)
	if err != nil {
		s.log.Warn("activity query failed, degrading to empty window", "user_id", userID.String(), "error", err)
		activities = nil
	}

	out := types.AnalyticsData{
		Reflections: make([]types.Reflection, 0, len(reflections)),
		Activities:  make([]types.GithubActivity, 0, len(activities)),
		Stats:       windowStats(reflections, activities),
	}
	for _, r := range reflections {
		out.Reflections = append(out.Reflections, *r)
	}
	for _, a := range activities {
		out.Activities = append(out.Activities, *a)
	}
	return out, nil
}

func windowStats(reflections []*types.Reflection, activities []*types.GithubActivity) types.WindowStats {
	stats := types.WindowStats{TotalReflections: len(reflections)}

	scores := make([]float64, 0, len(reflections))
	var conditionSum float64
	activeDays := make(map[string]struct{})
	for _, r := range reflections {
		scores = append(scores, r.OverallScore)
		conditionSum += r.Condition.Ordinal()
		activeDays[dateKey(r.Date)] = struct{}{}
	}
	for _, a := range activities {
		stats.TotalCommits += a.CommitCount
		if a.CommitCount > 0 {
			activeDays[dateKey(a.Date)] = struct{}{}
		}
	}

	if len(reflections) > 0 {
		stats.AvgScore = math.Round(mean(scores)*10) / 10
		stats.AvgCondition = math.Round(conditionSum/float64(len(reflections))*10) / 10
	}
	stats.ActiveDays = len(activeDays)

	// Chart-facing consistency stays on the 0-10 scale of the source data.
	if len(scores) >= 2 {
		stats.Consistency = math.Max(0, 10-stdev(scores))
	}
	return stats
}
