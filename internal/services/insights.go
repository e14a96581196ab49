package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/types"
)

// InsightService distills window metrics, slot performance and detected
// patterns into a prioritized insight feed. Insights are presentation units;
// every rule here is a threshold over already-computed analytics, never a
// fresh store query.
type InsightService interface {
	GenerateInsights(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.Insight, error)
	GetInsightsByType(ctx context.Context, userID uuid.UUID, windowDays int, insightType types.InsightType) ([]types.Insight, error)
}

type insightService struct {
	db        *gorm.DB
	log       *logger.Logger
	metrics   MetricsService
	timeSlots TimeSlotService
	patterns  PatternService
	tuning    Tuning
}

func NewInsightService(db *gorm.DB, log *logger.Logger, metrics MetricsService, timeSlots TimeSlotService, patterns PatternService, tuning Tuning) InsightService {
	return &insightService{
		db:        db,
		log:       log.With("service", "InsightService"),
		metrics:   metrics,
		timeSlots: timeSlots,
		patterns:  patterns,
		tuning:    tuning,
	}
}

func (s *insightService) GenerateInsights(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.Insight, error) {
	if windowDays <= 0 {
		windowDays = s.tuning.DefaultWindowDays
	}

	metrics, err := s.metrics.GetLearningMetrics(ctx, userID, windowDays)
	if err != nil {
		s.log.Warn("metrics failed, generating insights from zero metrics", "user_id", userID.String(), "error", err)
		metrics = types.LearningMetrics{}
	}
	slots, err := s.timeSlots.AnalyzeTimeSlots(ctx, userID, windowDays)
	if err != nil {
		s.log.Warn("time slot analysis failed, skipping slot insights", "user_id", userID.String(), "error", err)
		slots = nil
	}
	patterns, err := s.patterns.AnalyzeAllPatterns(ctx, userID, windowDays)
	if err != nil {
		s.log.Warn("pattern analysis failed, skipping pattern insights", "user_id", userID.String(), "error", err)
		patterns = nil
	}

	insights := make([]types.Insight, 0, 12)
	insights = append(insights, performanceInsights(metrics, slots)...)
	insights = append(insights, patternInsights(patterns)...)
	insights = append(insights, recommendationInsights(metrics, slots)...)
	insights = append(insights, predictiveInsights(metrics, slots)...)
	insights = append(insights, warningInsights(metrics)...)

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority.Weight() > insights[j].Priority.Weight()
	})
	return insights, nil
}

func (s *insightService) GetInsightsByType(ctx context.Context, userID uuid.UUID, windowDays int, insightType types.InsightType) ([]types.Insight, error) {
	all, err := s.GenerateInsights(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}
	out := make([]types.Insight, 0, len(all))
	for _, insight := range all {
		if insight.Type == insightType {
			out = append(out, insight)
		}
	}
	return out, nil
}

func performanceInsights(metrics types.LearningMetrics, slots []types.TimeSlotPerformance) []types.Insight {
	insights := make([]types.Insight, 0, 3)
	now := time.Now().UTC()

	if metrics.AverageScore >= 8 {
		trend := types.TrendStable
		if metrics.ImprovementRate > 0 {
			trend = types.TrendUp
		}
		insights = append(insights, types.Insight{
			ID:          "high-performance",
			Type:        types.InsightTypePerformance,
			Title:       "Excellent learning performance",
			Description: fmt.Sprintf("Averaging %.1f points, a very strong result.", metrics.AverageScore),
			Value:       floatPtr(metrics.AverageScore),
			Trend:       trend,
			Priority:    types.PriorityHigh,
			Confidence:  0.9,
			Actionable:  false,
			GeneratedAt: now,
		})
	} else if metrics.AverageScore < 5 && metrics.TotalReflections > 0 {
		insights = append(insights, types.Insight{
			ID:          "low-performance",
			Type:        types.InsightTypeWarning,
			Title:       "Performance needs attention",
			Description: fmt.Sprintf("Averaging %.1f points. Review your study methods.", metrics.AverageScore),
			Value:       floatPtr(metrics.AverageScore),
			Trend:       types.TrendDown,
			Priority:    types.PriorityHigh,
			Confidence:  0.8,
			Actionable:  true,
			GeneratedAt: now,
		})
	}

	if metrics.ConsistencyScore >= 80 {
		insights = append(insights, types.Insight{
			ID:          "high-consistency",
			Type:        types.InsightTypePerformance,
			Title:       "Excellent consistency",
			Description: fmt.Sprintf("Consistency score of %.1f shows a very regular study rhythm.", metrics.ConsistencyScore),
			Value:       floatPtr(metrics.ConsistencyScore),
			Trend:       types.TrendStable,
			Priority:    types.PriorityMedium,
			Confidence:  0.85,
			Actionable:  false,
			GeneratedAt: now,
		})
	}

	if best := bestSlot(slots); best != nil && best.AverageScore > 0 {
		trend := types.TrendStable
		if best.ImprovementTrend > 0 {
			trend = types.TrendUp
		}
		insights = append(insights, types.Insight{
			ID:          "best-time-slot",
			Type:        types.InsightTypePattern,
			Title:       "Peak time slot identified",
			Description: fmt.Sprintf("Your best results come from the %s slot, averaging %.1f points.", best.TimeSlot, best.AverageScore),
			Value:       floatPtr(best.AverageScore),
			Trend:       trend,
			Priority:    types.PriorityMedium,
			Confidence:  0.75,
			Actionable:  true,
			Metadata: map[string]interface{}{
				"time_slot":    string(best.TimeSlot),
				"optimal_days": best.OptimalDays,
			},
			GeneratedAt: now,
		})
	}

	return insights
}

// patternInsights surfaces the strongest detected patterns directly, capped
// at two so the feed stays dominated by the rule-based insights.
func patternInsights(patterns []types.Pattern) []types.Insight {
	insights := make([]types.Insight, 0, 2)
	now := time.Now().UTC()

	for _, p := range patterns {
		if p.Strength <= 0.7 {
			continue
		}
		insights = append(insights, types.Insight{
			ID:          "pattern-" + p.ID,
			Type:        types.InsightTypePattern,
			Title:       p.Name,
			Description: p.Description,
			Value:       floatPtr(p.Strength),
			Trend:       types.TrendStable,
			Priority:    types.PriorityMedium,
			Confidence:  p.Consistency,
			Actionable:  true,
			Metadata:    map[string]interface{}{"category": string(p.Category)},
			GeneratedAt: now,
		})
		if len(insights) == 2 {
			break
		}
	}
	return insights
}

func recommendationInsights(metrics types.LearningMetrics, slots []types.TimeSlotPerformance) []types.Insight {
	insights := make([]types.Insight, 0, 3)
	now := time.Now().UTC()

	if best, worst := extremeSlots(slots); best != nil && worst != nil {
		gap := best.AverageScore - worst.AverageScore
		if gap > 2 {
			insights = append(insights, types.Insight{
				ID:    "optimize-schedule",
				Type:  types.InsightTypeRecommendation,
				Title: "Schedule optimization suggested",
				Description: fmt.Sprintf("The %s slot outperforms the %s slot by %.1f points. Move important study to the %s slot.",
					best.TimeSlot, worst.TimeSlot, gap, best.TimeSlot),
				Value:      floatPtr(gap),
				Trend:      types.TrendUp,
				Priority:   types.PriorityHigh,
				Confidence: 0.8,
				Actionable: true,
				Metadata: map[string]interface{}{
					"best_time_slot":  string(best.TimeSlot),
					"worst_time_slot": string(worst.TimeSlot),
				},
				GeneratedAt: now,
			})
		}
	}

	if metrics.ConsistencyScore < 60 && metrics.TotalReflections > 0 {
		insights = append(insights, types.Insight{
			ID:          "improve-consistency",
			Type:        types.InsightTypeRecommendation,
			Title:       "Consistency needs work",
			Description: "Your results vary a lot between sessions. Build a fixed study routine.",
			Value:       floatPtr(metrics.ConsistencyScore),
			Trend:       types.TrendStable,
			Priority:    types.PriorityMedium,
			Confidence:  0.7,
			Actionable:  true,
			GeneratedAt: now,
		})
	}

	if metrics.GithubActivity < 10 {
		insights = append(insights, types.Insight{
			ID:          "increase-github-activity",
			Type:        types.InsightTypeRecommendation,
			Title:       "More hands-on practice suggested",
			Description: "GitHub activity was low this window. Turn what you learn into code.",
			Value:       floatPtr(float64(metrics.GithubActivity)),
			Trend:       types.TrendDown,
			Priority:    types.PriorityMedium,
			Confidence:  0.6,
			Actionable:  true,
			GeneratedAt: now,
		})
	}

	return insights
}

func predictiveInsights(metrics types.LearningMetrics, slots []types.TimeSlotPerformance) []types.Insight {
	insights := make([]types.Insight, 0, 1)
	if len(slots) == 0 {
		return insights
	}
	now := time.Now().UTC()

	var trendSum float64
	for _, slot := range slots {
		trendSum += slot.ImprovementTrend
	}
	avgImprovement := trendSum / float64(len(slots))

	if avgImprovement > 5 {
		predicted := metrics.AverageScore * (1 + avgImprovement/100)
		insights = append(insights, types.Insight{
			ID:          "positive-trend-prediction",
			Type:        types.InsightTypePrediction,
			Title:       "Positive trend projected",
			Description: fmt.Sprintf("On the current trend your average score could reach %.1f next week.", predicted),
			Value:       floatPtr(predicted),
			Change:      floatPtr(avgImprovement),
			Trend:       types.TrendUp,
			Priority:    types.PriorityMedium,
			Confidence:  0.6,
			Actionable:  false,
			GeneratedAt: now,
		})
	} else if avgImprovement < -5 {
		insights = append(insights, types.Insight{
			ID:          "negative-trend-warning",
			Type:        types.InsightTypeWarning,
			Title:       "Declining trend detected",
			Description: "Recent performance is trending down. Review and adjust your approach.",
			Value:       floatPtr(metrics.AverageScore),
			Change:      floatPtr(avgImprovement),
			Trend:       types.TrendDown,
			Priority:    types.PriorityHigh,
			Confidence:  0.7,
			Actionable:  true,
			GeneratedAt: now,
		})
	}

	return insights
}

func warningInsights(metrics types.LearningMetrics) []types.Insight {
	insights := make([]types.Insight, 0, 2)
	now := time.Now().UTC()

	if metrics.TotalReflections < 10 {
		insights = append(insights, types.Insight{
			ID:          "low-activity-warning",
			Type:        types.InsightTypeWarning,
			Title:       "Low study activity",
			Description: "Few reflections were written recently. Steady journaling supports improvement.",
			Value:       floatPtr(float64(metrics.TotalReflections)),
			Trend:       types.TrendDown,
			Priority:    types.PriorityMedium,
			Confidence:  0.9,
			Actionable:  true,
			GeneratedAt: now,
		})
	}

	if math.Abs(metrics.ImprovementRate) > 50 {
		trend := types.TrendDown
		if metrics.ImprovementRate > 0 {
			trend = types.TrendUp
		}
		insights = append(insights, types.Insight{
			ID:          "dramatic-change-warning",
			Type:        types.InsightTypeWarning,
			Title:       "Sharp performance change detected",
			Description: "Your performance changed sharply within this window. Look into what caused it.",
			Value:       floatPtr(math.Abs(metrics.ImprovementRate)),
			Change:      floatPtr(metrics.ImprovementRate),
			Trend:       trend,
			Priority:    types.PriorityHigh,
			Confidence:  0.8,
			Actionable:  true,
			GeneratedAt: now,
		})
	}

	return insights
}

func bestSlot(slots []types.TimeSlotPerformance) *types.TimeSlotPerformance {
	var best *types.TimeSlotPerformance
	for i := range slots {
		if best == nil || slots[i].AverageScore > best.AverageScore {
			best = &slots[i]
		}
	}
	return best
}

// extremeSlots returns the best and worst populated slots, skipping slots
// with no sessions so an unused evening does not fake a performance gap.
func extremeSlots(slots []types.TimeSlotPerformance) (best, worst *types.TimeSlotPerformance) {
	for i := range slots {
		if slots[i].ActivityCount == 0 {
			continue
		}
		if best == nil || slots[i].AverageScore > best.AverageScore {
			best = &slots[i]
		}
		if worst == nil || slots[i].AverageScore < worst.AverageScore {
			worst = &slots[i]
		}
	}
	return best, worst
}

func floatPtr(v float64) *float64 { return &v }
