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

// MetricsService aggregates a user's window into one LearningMetrics value.
// It is a pure read-and-derive component: a store failure or an empty window
// degrades to the zero-valued metrics, never an error surfaced to callers.
type MetricsService interface {
	GetLearningMetrics(ctx context.Context, userID uuid.UUID, windowDays int) (types.LearningMetrics, error)
}

type metricsService struct {
	db     *gorm.DB
	log    *logger.Logger
	refl   repos.ReflectionRepo
	act    repos.ActivityRepo
	tuning Tuning
}

func NewMetricsService(db *gorm.DB, log *logger.Logger, refl repos.ReflectionRepo, act repos.ActivityRepo, tuning Tuning) MetricsService {
	return &metricsService{
		db:     db,
		log:    log.With("service", "MetricsService"),
		refl:   refl,
		act:    act,
		tuning: tuning,
	}
}

func (s *metricsService) GetLearningMetrics(ctx context.Context, userID uuid.UUID, windowDays int) (types.LearningMetrics, error) {
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

	return s.compute(reflections, activities), nil
}

func (s *metricsService) compute(reflections []*types.Reflection, activities []*types.GithubActivity) types.LearningMetrics {
	if len(reflections) == 0 {
		return types.LearningMetrics{}
	}

	total := len(reflections)
	scores := make([]float64, 0, total)
	var conditionSum float64
	for _, r := range reflections {
		scores = append(scores, r.OverallScore)
		conditionSum += r.Condition.Ordinal()
	}

	averageScore := mean(scores)
	averageCondition := conditionSum / float64(total)
	consistency := consistencyScore(scores, s.tuning.ConsistencyStdevPenalty)
	improvementRate := improvementRate(scores)

	var githubActivity int
	for _, a := range activities {
		githubActivity += a.CommitCount
	}

	productivity := math.Min(100,
		s.tuning.ProductivityScoreWeight*averageScore*10+
			s.tuning.ProductivityConsWeight*consistency+
			s.tuning.ProductivityActWeight*math.Min(float64(githubActivity)/s.tuning.ActivitySaturation, 1))

	return types.LearningMetrics{
		TotalReflections:  total,
		AverageScore:      averageScore,
		AverageCondition:  averageCondition,
		ConsistencyScore:  consistency,
		ImprovementRate:   improvementRate,
		GithubActivity:    githubActivity,
		ProductivityScore: productivity,
	}
}

// improvementRate compares the first and last seven entries of a
// chronological score series, as a percentage of the first-week average.
// The divisor floors at 1 so a near-zero opening week cannot explode the
// rate.
func improvementRate(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	firstN := len(scores)
	if firstN > 7 {
		firstN = 7
	}
	firstAvg := mean(scores[:firstN])

	lastStart := len(scores) - 7
	if lastStart < 0 {
		lastStart = 0
	}
	lastAvg := mean(scores[lastStart:])

	return (lastAvg - firstAvg) / math.Max(firstAvg, 1) * 100
}
