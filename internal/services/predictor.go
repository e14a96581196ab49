package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/repos"
	"github.com/lgdx/analytics-backend/internal/types"
)

// PredictionService projects score, productivity and consistency forward by
// linear regression, and runs a small rule-based risk detector over the
// trailing two weeks. All confidence values are heuristic remaps of r²,
// relative weights rather than calibrated probabilities.
type PredictionService interface {
	GeneratePredictions(ctx context.Context, userID uuid.UUID, horizonDays int) ([]types.Prediction, error)
	GenerateTrajectory(ctx context.Context, userID uuid.UUID, horizonDays int) ([]types.TrajectoryPoint, error)
}

type predictionService struct {
	db       *gorm.DB
	log      *logger.Logger
	refl     repos.ReflectionRepo
	act      repos.ActivityRepo
	patterns PatternService
	tuning   Tuning
}

func NewPredictionService(db *gorm.DB, log *logger.Logger, refl repos.ReflectionRepo, act repos.ActivityRepo, patterns PatternService, tuning Tuning) PredictionService {
	return &predictionService{
		db:       db,
		log:      log.With("service", "PredictionService"),
		refl:     refl,
		act:      act,
		patterns: patterns,
		tuning:   tuning,
	}
}

func (s *predictionService) GeneratePredictions(ctx context.Context, userID uuid.UUID, horizonDays int) ([]types.Prediction, error) {
	if horizonDays <= 0 {
		horizonDays = s.tuning.PredictionHorizonDays
	}

	predictions := make([]types.Prediction, 0, 6)
	predictions = append(predictions, s.predictScore(ctx, userID, horizonDays))
	predictions = append(predictions, s.predictProductivity(ctx, userID, horizonDays))
	predictions = append(predictions, s.predictConsistency(ctx, userID, horizonDays))
	predictions = append(predictions, s.predictRisks(ctx, userID, horizonDays)...)

	sort.SliceStable(predictions, func(i, j int) bool { return predictions[i].Confidence > predictions[j].Confidence })
	return predictions, nil
}

func (s *predictionService) historicalScores(ctx context.Context, userID uuid.UUID) []float64 {
	reflections, err := s.refl.GetRecentByUser(ctx, nil, userID, s.tuning.RegressionLookbackDays)
	if err != nil {
		s.log.Warn("reflection query failed, degrading to empty history", "user_id", userID.String(), "error", err)
		return nil
	}
	scores := make([]float64, 0, len(reflections))
	for _, r := range reflections {
		scores = append(scores, r.OverallScore)
	}
	return scores
}

func (s *predictionService) predictScore(ctx context.Context, userID uuid.UUID, horizonDays int) types.Prediction {
	history := s.historicalScores(ctx, userID)
	patterns, err := s.patterns.AnalyzeAllPatterns(ctx, userID, s.tuning.RegressionLookbackDays)
	if err != nil {
		s.log.Warn("pattern analysis failed, predicting without adjustment", "user_id", userID.String(), "error", err)
		patterns = nil
	}

	slope, intercept, r2 := linearTrend(history)
	dayIndex := float64(len(history) + horizonDays)
	basePrediction := slope*dayIndex + intercept

	adjustment := s.patternAdjustment(patterns)
	finalPrediction := clampFloat(basePrediction+adjustment, 0, 10)

	confidence := clampFloat(r2*0.8+0.2, 0.3, 0.95)
	trend := slopeTrend(slope, s.tuning.ScoreTrendSlopeCutoff)

	factors := s.performanceFactors(history, patterns)

	return types.Prediction{
		ID:              "performance-score-prediction",
		Type:            types.PredictionTypeScore,
		TimeHorizonDays: horizonDays,
		PredictedValue:  finalPrediction,
		Confidence:      confidence,
		Trend:           trend,
		Factors:         factors,
		Description:     fmt.Sprintf("Expected performance score in %d days: %.1f.", horizonDays, finalPrediction),
		Recommendations: scoreRecommendations(finalPrediction, trend),
		CreatedAt:       time.Now().UTC(),
		Metadata: map[string]interface{}{
			"slope":              slope,
			"r2":                 r2,
			"pattern_adjustment": adjustment,
			"base_prediction":    basePrediction,
		},
	}
}

func (s *predictionService) predictProductivity(ctx context.Context, userID uuid.UUID, horizonDays int) types.Prediction {
	reflections, err := s.refl.GetRecentByUser(ctx, nil, userID, s.tuning.RegressionLookbackDays)
	if err != nil {
		s.log.Warn("reflection query failed, degrading to empty history", "user_id", userID.String(), "error", err)
		reflections = nil
	}
	activities, err := s.act.GetRecentByUser(ctx, nil, userID, s.tuning.RegressionLookbackDays)
	if err != nil {
		s.log.Warn("activity query failed, degrading to empty history", "user_id", userID.String(), "error", err)
		activities = nil
	}

	commitsByDate := make(map[string]int, len(activities))
	for _, a := range activities {
		commitsByDate[dateKey(a.Date)] += a.CommitCount
	}

	composites := make([]float64, 0, len(reflections))
	for _, r := range reflections {
		commitScore := math.Min(30, float64(commitsByDate[dateKey(r.Date)])*5)
		composites = append(composites, r.OverallScore*0.7+commitScore)
	}

	slope, intercept, r2 := linearTrend(composites)
	dayIndex := float64(len(composites) + horizonDays)
	prediction := clampFloat(slope*dayIndex+intercept, 0, 100)

	confidence := clampFloat(r2*0.7+0.3, 0.4, 0.9)
	trend := slopeTrend(slope, s.tuning.ProdTrendSlopeCutoff)

	return types.Prediction{
		ID:              "productivity-prediction",
		Type:            types.PredictionTypeProductivity,
		TimeHorizonDays: horizonDays,
		PredictedValue:  prediction,
		Confidence:      confidence,
		Trend:           trend,
		Factors:         []string{"Learning performance", "GitHub activity", "Consistency"},
		Description:     fmt.Sprintf("Expected productivity in %d days: %.0f%%.", horizonDays, prediction),
		Recommendations: productivityRecommendations(prediction),
		CreatedAt:       time.Now().UTC(),
		Metadata: map[string]interface{}{
			"slope":            slope,
			"r2":               r2,
			"avg_productivity": mean(composites),
		},
	}
}

func (s *predictionService) predictConsistency(ctx context.Context, userID uuid.UUID, horizonDays int) types.Prediction {
	reflections, err := s.refl.GetRecentByUser(ctx, nil, userID, s.tuning.RegressionLookbackDays)
	if err != nil {
		s.log.Warn("reflection query failed, degrading to empty history", "user_id", userID.String(), "error", err)
		reflections = nil
	}

	weekly := weeklyCompletionRates(reflections)
	slope, intercept, r2 := linearTrend(weekly)
	prediction := clampFloat(slope*float64(len(weekly)+1)+intercept, 0, 100)

	confidence := clampFloat(r2*0.6+0.4, 0.5, 0.85)
	trend := slopeTrend(slope, s.tuning.ConsTrendSlopeCutoff)

	current := 0.0
	if len(weekly) > 0 {
		current = weekly[len(weekly)-1]
	}

	return types.Prediction{
		ID:              "consistency-prediction",
		Type:            types.PredictionTypeConsistency,
		TimeHorizonDays: horizonDays,
		PredictedValue:  prediction,
		Confidence:      confidence,
		Trend:           trend,
		Factors:         []string{"Study regularity", "Habit formation", "Follow-through"},
		Description:     fmt.Sprintf("Expected consistency in %d days: %.0f%%.", horizonDays, prediction),
		Recommendations: consistencyRecommendations(prediction),
		CreatedAt:       time.Now().UTC(),
		Metadata: map[string]interface{}{
			"slope":               slope,
			"r2":                  r2,
			"current_consistency": current,
		},
	}
}

func (s *predictionService) predictRisks(ctx context.Context, userID uuid.UUID, horizonDays int) []types.Prediction {
	riskFactors := s.identifyRiskFactors(ctx, userID)

	risks := make([]types.Prediction, 0, len(riskFactors))
	for _, risk := range riskFactors {
		if risk.Severity != types.SeverityHigh && risk.Probability <= 0.6 {
			continue
		}
		risks = append(risks, types.Prediction{
			ID:              "risk-" + slugify(risk.Factor),
			Type:            types.PredictionTypeRisk,
			TimeHorizonDays: horizonDays,
			PredictedValue:  risk.Probability * 100,
			Confidence:      0.7,
			Trend:           types.TrendUp,
			Factors:         []string{risk.Factor},
			Description:     fmt.Sprintf("%s risk: %.0f%%.", risk.Factor, risk.Probability*100),
			Recommendations: risk.Mitigation,
			CreatedAt:       time.Now().UTC(),
			Metadata: map[string]interface{}{
				"severity": string(risk.Severity),
				"impact":   risk.Impact,
			},
		})
	}
	return risks
}

// identifyRiskFactors applies the fixed risk rules over the trailing window.
func (s *predictionService) identifyRiskFactors(ctx context.Context, userID uuid.UUID) []types.RiskFactor {
	start, end := analysisWindow(s.tuning.RiskLookbackDays)
	recent, err := s.refl.GetByUserAndDateRange(ctx, nil, userID, start, end)
	if err != nil {
		s.log.Warn("reflection query failed, skipping risk detection", "user_id", userID.String(), "error", err)
		return nil
	}

	risks := make([]types.RiskFactor, 0, 3)

	if len(recent) < s.tuning.RiskMinRecentReflections {
		risks = append(risks, types.RiskFactor{
			Factor:      "Low study activity",
			Severity:    types.SeverityHigh,
			Probability: 0.8,
			Impact:      0.7,
			Mitigation: []string{
				"Set a fixed study routine",
				"Start with small goals",
				"Use reminders",
			},
		})
	}

	if len(recent) > 0 {
		scores := make([]float64, 0, len(recent))
		for _, r := range recent {
			scores = append(scores, r.OverallScore)
		}
		if mean(scores) < s.tuning.RiskLowScoreCutoff {
			risks = append(risks, types.RiskFactor{
				Factor:      "Sustained score decline",
				Severity:    types.SeverityHigh,
				Probability: 0.7,
				Impact:      0.8,
				Mitigation: []string{
					"Review your study methods",
					"Ask for mentoring",
					"Reset your goals",
				},
			})
		}

		fatigued := 0
		for _, r := range recent {
			if r.Condition == types.ConditionTired || r.Condition == types.ConditionExhausted {
				fatigued++
			}
		}
		if float64(fatigued) > float64(len(recent))*s.tuning.RiskFatigueShare {
			risks = append(risks, types.RiskFactor{
				Factor:      "Study burnout",
				Severity:    types.SeverityMedium,
				Probability: 0.6,
				Impact:      0.6,
				Mitigation: []string{
					"Take proper rest",
					"Reduce study load",
					"Manage stress",
				},
			})
		}
	}

	return risks
}

// GenerateTrajectory projects the score regression per future day, with
// confidence decaying linearly from 0.8 toward 0.4 as the horizon lengthens.
func (s *predictionService) GenerateTrajectory(ctx context.Context, userID uuid.UUID, horizonDays int) ([]types.TrajectoryPoint, error) {
	if horizonDays <= 0 {
		horizonDays = s.tuning.TrajectoryHorizonDays
	}

	history := s.historicalScores(ctx, userID)
	if len(history) == 0 {
		return []types.TrajectoryPoint{}, nil
	}

	slope, intercept, _ := linearTrend(history)
	now := time.Now().UTC()

	trajectory := make([]types.TrajectoryPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		dayIndex := float64(len(history) + i)
		predicted := clampFloat(slope*dayIndex+intercept, 0, 10)
		confidence := math.Max(0.2, 0.8-float64(i)/float64(horizonDays)*0.4)

		factors := []string{"Recent patterns"}
		if i > 7 {
			factors = []string{"Long-range trend", "Increasing uncertainty"}
		}

		trajectory = append(trajectory, types.TrajectoryPoint{
			Date:           dateKey(now.AddDate(0, 0, i)),
			PredictedScore: predicted,
			Confidence:     confidence,
			Factors:        factors,
		})
	}
	return trajectory, nil
}

// patternAdjustment nudges the score regression by the strength of
// sufficiently strong patterns. The category weights are placeholder
// heuristics inherited from the dashboard; the clamp keeps the term from
// dominating the regression.
func (s *predictionService) patternAdjustment(patterns []types.Pattern) float64 {
	var adjustment float64
	for _, p := range patterns {
		switch p.Category {
		case types.PatternCategoryTime:
			if p.Strength > 0.7 {
				adjustment += p.Strength * s.tuning.PatternTimeWeight
			}
		case types.PatternCategoryHabit:
			if p.Strength > 0.8 {
				adjustment += p.Strength * s.tuning.PatternHabitWeight
			}
		case types.PatternCategoryProductivity:
			if p.Strength > 0.6 {
				adjustment += p.Strength * s.tuning.PatternProdWeight
			}
		}
	}
	return clampFloat(adjustment, -s.tuning.PatternAdjustmentLimit, s.tuning.PatternAdjustmentLimit)
}

func (s *predictionService) performanceFactors(history []float64, patterns []types.Pattern) []string {
	factors := make([]string, 0, 5)

	if len(history) > 0 {
		recentStart := len(history) - 7
		if recentStart < 0 {
			recentStart = 0
		}
		recent := history[recentStart:]
		older := history[:recentStart]

		recentAvg := mean(recent)
		olderAvg := recentAvg
		if len(older) > 0 {
			olderAvg = mean(older)
		}
		if recentAvg > olderAvg+0.5 {
			factors = append(factors, "Recent performance improvement")
		}
	}

	for _, p := range patterns {
		if p.Strength > 0.6 {
			factors = append(factors, p.Name)
		}
		if len(factors) == 5 {
			break
		}
	}
	return factors
}

func slopeTrend(slope, cutoff float64) types.Trend {
	switch {
	case slope > cutoff:
		return types.TrendUp
	case slope < -cutoff:
		return types.TrendDown
	default:
		return types.TrendStable
	}
}

// weeklyCompletionRates buckets reflections into calendar weeks and scores
// each week by session count out of seven, in chronological order.
func weeklyCompletionRates(reflections []*types.Reflection) []float64 {
	if len(reflections) == 0 {
		return nil
	}

	counts := make(map[int64]int)
	for _, r := range reflections {
		week := r.Date.Unix() / (7 * 24 * 60 * 60)
		counts[week]++
	}

	weeks := make([]int64, 0, len(counts))
	for w := range counts {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })

	rates := make([]float64, 0, len(weeks))
	for _, w := range weeks {
		rates = append(rates, math.Min(100, float64(counts[w])/7*100))
	}
	return rates
}

func scoreRecommendations(prediction float64, trend types.Trend) []string {
	recommendations := make([]string, 0, 3)
	if prediction < 6 {
		recommendations = append(recommendations,
			"Revisit and improve your study methods.",
			"Set smaller goals to build momentum.")
	} else if prediction > 8 {
		recommendations = append(recommendations,
			"Keep up the patterns that are working.",
			"Add a new challenge to stretch yourself.")
	}
	switch trend {
	case types.TrendDown:
		recommendations = append(recommendations, "Analyze what changed recently and adjust.")
	case types.TrendUp:
		recommendations = append(recommendations, "Sustain the factors behind the upward trend.")
	}
	if len(recommendations) > 3 {
		recommendations = recommendations[:3]
	}
	return recommendations
}

func productivityRecommendations(prediction float64) []string {
	recommendations := make([]string, 0, 2)
	if prediction < 50 {
		recommendations = append(recommendations,
			"Increase GitHub activity to pair practice with theory.",
			"Extend study time or improve focus.")
	} else if prediction > 80 {
		recommendations = append(recommendations,
			"Maintain your current high productivity.",
			"Start a more ambitious project.")
	}
	return recommendations
}

func consistencyRecommendations(prediction float64) []string {
	recommendations := make([]string, 0, 2)
	if prediction < 60 {
		recommendations = append(recommendations,
			"Build a fixed study routine and stick to it.",
			"Achieve small goals consistently.")
	} else if prediction > 85 {
		recommendations = append(recommendations, "Keep up the excellent consistency.")
	}
	return recommendations
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
