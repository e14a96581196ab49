package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/types"
)

// AnalyticsService is the orchestrator over the per-concern analyzers. The
// comprehensive and growth-path views fan their branches out concurrently;
// each branch runs under its own timeout and degrades to an empty collection
// on failure, so one slow or broken analyzer never takes down the merged
// response.
type AnalyticsService interface {
	GetComprehensiveAnalysis(ctx context.Context, userID uuid.UUID) (types.ComprehensiveAnalysis, error)
	GetQuickWins(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error)
	GetRiskAssessment(ctx context.Context, userID uuid.UUID) (types.RiskAssessment, error)
	GetGrowthPath(ctx context.Context, userID uuid.UUID, horizonDays int) (types.GrowthPath, error)
}

type analyticsService struct {
	db              *gorm.DB
	log             *logger.Logger
	insights        InsightService
	patterns        PatternService
	predictions     PredictionService
	recommendations RecommendationService
	tuning          Tuning
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger, insights InsightService, patterns PatternService, predictions PredictionService, recommendations RecommendationService, tuning Tuning) AnalyticsService {
	return &analyticsService{
		db:              db,
		log:             log.With("service", "AnalyticsService"),
		insights:        insights,
		patterns:        patterns,
		predictions:     predictions,
		recommendations: recommendations,
		tuning:          tuning,
	}
}

func (s *analyticsService) GetComprehensiveAnalysis(ctx context.Context, userID uuid.UUID) (types.ComprehensiveAnalysis, error) {
	var (
		insights        []types.Insight
		patterns        []types.Pattern
		predictions     []types.Prediction
		recommendations []types.Recommendation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.branch(gctx, userID, "insights", func(bctx context.Context) error {
		var err error
		insights, err = s.insights.GenerateInsights(bctx, userID, s.tuning.DefaultWindowDays)
		return err
	}))
	g.Go(s.branch(gctx, userID, "patterns", func(bctx context.Context) error {
		var err error
		patterns, err = s.patterns.AnalyzeAllPatterns(bctx, userID, s.tuning.DefaultWindowDays)
		return err
	}))
	g.Go(s.branch(gctx, userID, "predictions", func(bctx context.Context) error {
		var err error
		predictions, err = s.predictions.GeneratePredictions(bctx, userID, s.tuning.PredictionHorizonDays)
		return err
	}))
	g.Go(s.branch(gctx, userID, "recommendations", func(bctx context.Context) error {
		var err error
		recommendations, err = s.recommendations.GenerateRecommendations(bctx, userID)
		return err
	}))

	// Branches degrade instead of failing, so Wait only propagates a
	// cancelled parent context.
	if err := g.Wait(); err != nil {
		return types.ComprehensiveAnalysis{}, fmt.Errorf("comprehensive analysis: %w", err)
	}

	summary := types.AnalysisSummary{TotalInsights: len(insights)}
	for _, p := range patterns {
		if p.Strength > 0.7 {
			summary.StrongPatterns++
		}
	}
	for _, p := range predictions {
		if p.Confidence > 0.8 {
			summary.HighConfidencePredictions++
		}
	}
	for _, r := range recommendations {
		if r.Priority == types.PriorityHigh {
			summary.ActionableRecommendations++
		}
	}

	return types.ComprehensiveAnalysis{
		Insights:        capInsights(insights, 10),
		Patterns:        capPatterns(patterns, 8),
		Predictions:     capPredictions(predictions, 5),
		Recommendations: capRecommendations(recommendations, 6),
		Summary:         summary,
	}, nil
}

// branch wraps one analyzer call with its own timeout and degrade-on-error
// semantics. The wrapped closure writes its result through a captured
// pointer; a failure leaves that result empty and returns nil so the other
// branches keep running.
func (s *analyticsService) branch(ctx context.Context, userID uuid.UUID, name string, fn func(context.Context) error) func() error {
	return func() error {
		bctx, cancel := context.WithTimeout(ctx, s.tuning.BranchTimeout)
		defer cancel()

		if err := fn(bctx); err != nil {
			s.log.Warn("analysis branch failed, degrading to empty",
				"branch", name, "user_id", userID.String(), "error", err)
		}
		return nil
	}
}

func (s *analyticsService) GetQuickWins(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error) {
	return s.recommendations.GetQuickWins(ctx, userID)
}

func (s *analyticsService) GetRiskAssessment(ctx context.Context, userID uuid.UUID) (types.RiskAssessment, error) {
	predictions, err := s.predictions.GeneratePredictions(ctx, userID, s.tuning.PredictionHorizonDays)
	if err != nil {
		return types.RiskAssessment{}, fmt.Errorf("risk assessment: %w", err)
	}

	risks := make([]types.Prediction, 0, len(predictions))
	mitigations := make([]string, 0, 6)
	for _, p := range predictions {
		if p.Type != types.PredictionTypeRisk {
			continue
		}
		risks = append(risks, p)
		mitigations = append(mitigations, p.Recommendations...)
	}

	return types.RiskAssessment{
		Risks:             risks,
		RiskLevel:         overallRiskLevel(risks),
		MitigationActions: mitigations,
	}, nil
}

func (s *analyticsService) GetGrowthPath(ctx context.Context, userID uuid.UUID, horizonDays int) (types.GrowthPath, error) {
	if horizonDays <= 0 {
		horizonDays = s.tuning.TrajectoryHorizonDays
	}

	var (
		strengths  []types.Pattern
		trajectory []types.TrajectoryPoint
		plan       types.PersonalizedPlan
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.branch(gctx, userID, "strongest-patterns", func(bctx context.Context) error {
		var err error
		strengths, err = s.patterns.GetStrongestPatterns(bctx, userID, s.tuning.DefaultWindowDays, 5)
		return err
	}))
	g.Go(s.branch(gctx, userID, "trajectory", func(bctx context.Context) error {
		var err error
		trajectory, err = s.predictions.GenerateTrajectory(bctx, userID, horizonDays)
		return err
	}))
	g.Go(s.branch(gctx, userID, "plan", func(bctx context.Context) error {
		var err error
		plan, err = s.recommendations.GeneratePersonalizedPlan(bctx, userID, horizonDays)
		return err
	}))

	if err := g.Wait(); err != nil {
		return types.GrowthPath{}, fmt.Errorf("growth path: %w", err)
	}

	return types.GrowthPath{
		CurrentStrengths: strengths,
		ProjectedGrowth:  trajectory,
		ActionPlan:       plan,
		Milestones:       growthMilestones(trajectory, horizonDays),
	}, nil
}

// overallRiskLevel averages the probability-like predicted values of the
// risk predictions. No risks means low.
func overallRiskLevel(risks []types.Prediction) types.Severity {
	if len(risks) == 0 {
		return types.SeverityLow
	}
	var sum float64
	for _, r := range risks {
		sum += r.PredictedValue
	}
	avg := sum / float64(len(risks))
	switch {
	case avg > 70:
		return types.SeverityHigh
	case avg > 40:
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}

// growthMilestones samples the trajectory at the week marks inside the
// horizon. Trajectory index i is day i+1 from today.
func growthMilestones(trajectory []types.TrajectoryPoint, horizonDays int) []types.GrowthMilestone {
	milestones := make([]types.GrowthMilestone, 0, 4)
	for _, day := range []int{7, 14, 21, 30} {
		if day > horizonDays || day > len(trajectory) {
			continue
		}
		point := trajectory[day-1]
		milestones = append(milestones, types.GrowthMilestone{
			Day:        day,
			Goal:       fmt.Sprintf("Reach an average score of %.1f", point.PredictedScore),
			Confidence: point.Confidence,
		})
	}
	return milestones
}

func capInsights(in []types.Insight, n int) []types.Insight {
	if in == nil {
		return []types.Insight{}
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}

func capPatterns(in []types.Pattern, n int) []types.Pattern {
	if in == nil {
		return []types.Pattern{}
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}

func capPredictions(in []types.Prediction, n int) []types.Prediction {
	if in == nil {
		return []types.Prediction{}
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}

func capRecommendations(in []types.Recommendation, n int) []types.Recommendation {
	if in == nil {
		return []types.Recommendation{}
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}
