package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/lgdx/analytics-backend/internal/types"
)

type stubInsightService struct {
	insights []types.Insight
	err      error
}

func (s *stubInsightService) GenerateInsights(context.Context, uuid.UUID, int) ([]types.Insight, error) {
	return s.insights, s.err
}
func (s *stubInsightService) GetInsightsByType(context.Context, uuid.UUID, int, types.InsightType) ([]types.Insight, error) {
	return s.insights, s.err
}

type stubPatternService struct {
	patterns []types.Pattern
	err      error
}

func (s *stubPatternService) AnalyzeAllPatterns(context.Context, uuid.UUID, int) ([]types.Pattern, error) {
	return s.patterns, s.err
}
func (s *stubPatternService) GetPatternsByCategory(context.Context, uuid.UUID, int, types.PatternCategory) ([]types.Pattern, error) {
	return s.patterns, s.err
}
func (s *stubPatternService) GetStrongestPatterns(_ context.Context, _ uuid.UUID, _ int, limit int) ([]types.Pattern, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && len(s.patterns) > limit {
		return s.patterns[:limit], nil
	}
	return s.patterns, nil
}
func (s *stubPatternService) PredictOptimalSchedule(context.Context, uuid.UUID, int) ([]types.SchedulePattern, error) {
	return nil, s.err
}
func (s *stubPatternService) GetPersonalizedTips(context.Context, uuid.UUID, int) ([]string, error) {
	return nil, s.err
}

type stubPredictionService struct {
	predictions []types.Prediction
	trajectory  []types.TrajectoryPoint
	err         error
}

func (s *stubPredictionService) GeneratePredictions(context.Context, uuid.UUID, int) ([]types.Prediction, error) {
	return s.predictions, s.err
}
func (s *stubPredictionService) GenerateTrajectory(context.Context, uuid.UUID, int) ([]types.TrajectoryPoint, error) {
	return s.trajectory, s.err
}

type stubRecommendationService struct {
	recommendations []types.Recommendation
	plan            types.PersonalizedPlan
	err             error
}

func (s *stubRecommendationService) GenerateRecommendations(context.Context, uuid.UUID) ([]types.Recommendation, error) {
	return s.recommendations, s.err
}
func (s *stubRecommendationService) GetRecommendationsByType(context.Context, uuid.UUID, types.RecommendationType) ([]types.Recommendation, error) {
	return s.recommendations, s.err
}
func (s *stubRecommendationService) GetQuickWins(context.Context, uuid.UUID) ([]types.Recommendation, error) {
	return s.recommendations, s.err
}
func (s *stubRecommendationService) GeneratePersonalizedPlan(context.Context, uuid.UUID, int) (types.PersonalizedPlan, error) {
	return s.plan, s.err
}

func manyInsights(n int) []types.Insight {
	out := make([]types.Insight, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.Insight{ID: fmt.Sprintf("insight-%d", i), Priority: types.PriorityMedium})
	}
	return out
}

func TestGetComprehensiveAnalysisMergeAndCaps(t *testing.T) {
	patterns := make([]types.Pattern, 0, 12)
	for i := 0; i < 12; i++ {
		strength := 0.5
		if i < 4 {
			strength = 0.9
		}
		patterns = append(patterns, types.Pattern{ID: fmt.Sprintf("p%d", i), Strength: strength})
	}
	predictions := []types.Prediction{
		{ID: "a", Confidence: 0.9},
		{ID: "b", Confidence: 0.5},
	}
	recommendations := []types.Recommendation{
		{ID: "r1", Priority: types.PriorityHigh},
		{ID: "r2", Priority: types.PriorityLow},
	}

	svc := NewAnalyticsService(nil, testLogger(t),
		&stubInsightService{insights: manyInsights(14)},
		&stubPatternService{patterns: patterns},
		&stubPredictionService{predictions: predictions},
		&stubRecommendationService{recommendations: recommendations},
		DefaultTuning())

	analysis, err := svc.GetComprehensiveAnalysis(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analysis.Insights) != 10 {
		t.Fatalf("Insights capped at %d, want 10", len(analysis.Insights))
	}
	if len(analysis.Patterns) != 8 {
		t.Fatalf("Patterns capped at %d, want 8", len(analysis.Patterns))
	}
	if len(analysis.Predictions) != 2 {
		t.Fatalf("Predictions=%d, want 2", len(analysis.Predictions))
	}
	if len(analysis.Recommendations) != 2 {
		t.Fatalf("Recommendations=%d, want 2", len(analysis.Recommendations))
	}

	if analysis.Summary.TotalInsights != 14 {
		t.Fatalf("TotalInsights=%d, want uncapped 14", analysis.Summary.TotalInsights)
	}
	if analysis.Summary.StrongPatterns != 4 {
		t.Fatalf("StrongPatterns=%d, want 4", analysis.Summary.StrongPatterns)
	}
	if analysis.Summary.HighConfidencePredictions != 1 {
		t.Fatalf("HighConfidencePredictions=%d, want 1", analysis.Summary.HighConfidencePredictions)
	}
	if analysis.Summary.ActionableRecommendations != 1 {
		t.Fatalf("ActionableRecommendations=%d, want 1", analysis.Summary.ActionableRecommendations)
	}
}

func TestGetComprehensiveAnalysisDegradesFailedBranch(t *testing.T) {
	svc := NewAnalyticsService(nil, testLogger(t),
		&stubInsightService{err: errors.New("boom")},
		&stubPatternService{patterns: []types.Pattern{{ID: "p", Strength: 0.9}}},
		&stubPredictionService{},
		&stubRecommendationService{},
		DefaultTuning())

	analysis, err := svc.GetComprehensiveAnalysis(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("branch failure must degrade, got error: %v", err)
	}
	if len(analysis.Insights) != 0 {
		t.Fatalf("failed branch yielded %d insights, want 0", len(analysis.Insights))
	}
	if len(analysis.Patterns) != 1 {
		t.Fatalf("healthy branch lost its result: %d patterns, want 1", len(analysis.Patterns))
	}
}

func TestGetRiskAssessmentLevels(t *testing.T) {
	cases := []struct {
		name        string
		predictions []types.Prediction
		wantLevel   types.Severity
		wantRisks   int
	}{
		{
			name:      "no_risks_is_low",
			wantLevel: types.SeverityLow,
		},
		{
			name: "average_above_70_is_high",
			predictions: []types.Prediction{
				{Type: types.PredictionTypeRisk, PredictedValue: 80, Recommendations: []string{"rest"}},
				{Type: types.PredictionTypeScore, PredictedValue: 5},
			},
			wantLevel: types.SeverityHigh,
			wantRisks: 1,
		},
		{
			name: "average_between_40_and_70_is_medium",
			predictions: []types.Prediction{
				{Type: types.PredictionTypeRisk, PredictedValue: 60},
				{Type: types.PredictionTypeRisk, PredictedValue: 40},
			},
			wantLevel: types.SeverityMedium,
			wantRisks: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAnalyticsService(nil, testLogger(t),
				&stubInsightService{},
				&stubPatternService{},
				&stubPredictionService{predictions: tc.predictions},
				&stubRecommendationService{},
				DefaultTuning())

			assessment, err := svc.GetRiskAssessment(context.Background(), testUserID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if assessment.RiskLevel != tc.wantLevel {
				t.Fatalf("RiskLevel=%s, want %s", assessment.RiskLevel, tc.wantLevel)
			}
			if len(assessment.Risks) != tc.wantRisks {
				t.Fatalf("Risks=%d, want %d", len(assessment.Risks), tc.wantRisks)
			}
		})
	}
}

func TestGetGrowthPathMilestones(t *testing.T) {
	trajectory := make([]types.TrajectoryPoint, 0, 30)
	for i := 1; i <= 30; i++ {
		trajectory = append(trajectory, types.TrajectoryPoint{PredictedScore: 7.5, Confidence: 0.6})
	}

	svc := NewAnalyticsService(nil, testLogger(t),
		&stubInsightService{},
		&stubPatternService{patterns: []types.Pattern{{ID: "p1"}, {ID: "p2"}}},
		&stubPredictionService{trajectory: trajectory},
		&stubRecommendationService{plan: types.PersonalizedPlan{PlanName: "plan"}},
		DefaultTuning())

	path, err := svc.GetGrowthPath(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path.Milestones) != 4 {
		t.Fatalf("Milestones=%d, want 4 (days 7/14/21/30)", len(path.Milestones))
	}
	if path.Milestones[0].Day != 7 || path.Milestones[3].Day != 30 {
		t.Fatalf("milestone days=%v, want 7..30", path.Milestones)
	}
	if path.ActionPlan.PlanName != "plan" {
		t.Fatalf("ActionPlan=%+v, want wired plan", path.ActionPlan)
	}
	if len(path.CurrentStrengths) != 2 {
		t.Fatalf("CurrentStrengths=%d, want 2", len(path.CurrentStrengths))
	}
}

func TestGetGrowthPathShortHorizonSkipsLateMilestones(t *testing.T) {
	trajectory := make([]types.TrajectoryPoint, 0, 10)
	for i := 1; i <= 10; i++ {
		trajectory = append(trajectory, types.TrajectoryPoint{PredictedScore: 6, Confidence: 0.5})
	}

	svc := NewAnalyticsService(nil, testLogger(t),
		&stubInsightService{},
		&stubPatternService{},
		&stubPredictionService{trajectory: trajectory},
		&stubRecommendationService{},
		DefaultTuning())

	path, err := svc.GetGrowthPath(context.Background(), testUserID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path.Milestones) != 1 {
		t.Fatalf("Milestones=%d, want only the day 7 mark", len(path.Milestones))
	}
}
