package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/types"
)

// RecommendationService turns detected patterns, predictions and window
// metrics into prioritized, actionable suggestions. Six rule families feed
// the pool: schedule, method, habit, goal, wellness and productivity
// replication. Ranking blends priority, expected impact and ease of
// implementation.
type RecommendationService interface {
	GenerateRecommendations(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error)
	GetRecommendationsByType(ctx context.Context, userID uuid.UUID, recType types.RecommendationType) ([]types.Recommendation, error)
	GetQuickWins(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error)
	GeneratePersonalizedPlan(ctx context.Context, userID uuid.UUID, durationDays int) (types.PersonalizedPlan, error)
}

type recommendationService struct {
	db          *gorm.DB
	log         *logger.Logger
	metrics     MetricsService
	patterns    PatternService
	predictions PredictionService
	tuning      Tuning
}

func NewRecommendationService(db *gorm.DB, log *logger.Logger, metrics MetricsService, patterns PatternService, predictions PredictionService, tuning Tuning) RecommendationService {
	return &recommendationService{
		db:          db,
		log:         log.With("service", "RecommendationService"),
		metrics:     metrics,
		patterns:    patterns,
		predictions: predictions,
		tuning:      tuning,
	}
}

func (s *recommendationService) GenerateRecommendations(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error) {
	patterns, err := s.patterns.AnalyzeAllPatterns(ctx, userID, s.tuning.DefaultWindowDays)
	if err != nil {
		s.log.Warn("pattern analysis failed, recommending without patterns", "user_id", userID.String(), "error", err)
		patterns = nil
	}
	predictions, err := s.predictions.GeneratePredictions(ctx, userID, s.tuning.PredictionHorizonDays)
	if err != nil {
		s.log.Warn("prediction failed, recommending without predictions", "user_id", userID.String(), "error", err)
		predictions = nil
	}
	metrics, err := s.metrics.GetLearningMetrics(ctx, userID, s.tuning.DefaultWindowDays)
	if err != nil {
		s.log.Warn("metrics failed, recommending with zero metrics", "user_id", userID.String(), "error", err)
		metrics = types.LearningMetrics{}
	}

	recommendations := make([]types.Recommendation, 0, 10)
	recommendations = append(recommendations, s.scheduleRecommendations(patterns)...)
	recommendations = append(recommendations, s.methodRecommendations(metrics)...)
	recommendations = append(recommendations, s.habitRecommendations(patterns, predictions)...)
	recommendations = append(recommendations, s.goalRecommendations(metrics)...)
	recommendations = append(recommendations, s.wellnessRecommendations(metrics)...)
	recommendations = append(recommendations, s.productivityRecommendations(patterns)...)

	prioritizeRecommendations(recommendations)
	return recommendations, nil
}

func (s *recommendationService) GetRecommendationsByType(ctx context.Context, userID uuid.UUID, recType types.RecommendationType) ([]types.Recommendation, error) {
	all, err := s.GenerateRecommendations(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]types.Recommendation, 0, len(all))
	for _, rec := range all {
		if rec.Type == recType {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *recommendationService) GetQuickWins(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error) {
	all, err := s.GenerateRecommendations(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]types.Recommendation, 0, 3)
	for _, rec := range all {
		if rec.ImplementationDifficulty < s.tuning.QuickWinMaxDifficulty &&
			rec.ExpectedImpact > s.tuning.QuickWinMinImpact &&
			rec.TimeToSeeResultsDays <= s.tuning.QuickWinMaxDays {
			out = append(out, rec)
			if len(out) == 3 {
				break
			}
		}
	}
	return out, nil
}

func (s *recommendationService) GeneratePersonalizedPlan(ctx context.Context, userID uuid.UUID, durationDays int) (types.PersonalizedPlan, error) {
	if durationDays <= 0 {
		durationDays = 14
	}
	// Plan body stays a skeleton for now; the growth path fills milestones
	// from the trajectory.
	return types.PersonalizedPlan{
		UserID:       userID.String(),
		PlanName:     fmt.Sprintf("%d-day personalized learning plan", durationDays),
		DurationDays: durationDays,
		Objectives: []string{
			"Improve learning consistency",
			"Raise performance scores",
			"Use time more effectively",
		},
		DailyRecommendations: []types.PlanStep{},
		Milestones:           []types.PlanStep{},
		Adaptations:          []string{},
	}, nil
}

func (s *recommendationService) scheduleRecommendations(patterns []types.Pattern) []types.Recommendation {
	recommendations := make([]types.Recommendation, 0, 2)

	var bestTime *types.Pattern
	weekdayPatterns := make([]types.Pattern, 0, len(patterns))
	for i := range patterns {
		p := &patterns[i]
		if p.Category != types.PatternCategoryTime {
			continue
		}
		if _, isWeekday := p.Metadata["weekday_name"]; isWeekday {
			weekdayPatterns = append(weekdayPatterns, *p)
			continue
		}
		if bestTime == nil || p.Strength > bestTime.Strength {
			bestTime = p
		}
	}

	if bestTime != nil && bestTime.Strength > 0.6 {
		slot, _ := bestTime.Metadata["time_slot"].(string)
		avg, _ := bestTime.Metadata["average_score"].(float64)
		recommendations = append(recommendations, types.Recommendation{
			ID:          "optimize-peak-hours",
			Type:        types.RecommendationTypeSchedule,
			Priority:    types.PriorityHigh,
			Title:       "Use your peak time slot",
			Description: fmt.Sprintf("You perform best in the %s slot. Schedule your most important study there.", slot),
			Rationale:   fmt.Sprintf("Averaging %.1f points, ahead of your other time slots.", avg),
			ActionItems: []string{
				fmt.Sprintf("Place your hardest subject in the %s slot", slot),
				"Use it for theory work that needs deep focus",
				"Reserve it for important project work",
			},
			ExpectedImpact:           0.8,
			ImplementationDifficulty: 0.3,
			TimeToSeeResultsDays:     7,
			Category:                 "Time management",
			Tags:                     []string{"schedule", "optimization", "performance"},
			Metadata:                 map[string]interface{}{"time_slot": slot, "average_score": avg},
			CreatedAt:                time.Now().UTC(),
		})
	}

	if len(weekdayPatterns) > 0 {
		sort.SliceStable(weekdayPatterns, func(i, j int) bool {
			ai, _ := weekdayPatterns[i].Metadata["average_score"].(float64)
			aj, _ := weekdayPatterns[j].Metadata["average_score"].(float64)
			return ai > aj
		})
		if len(weekdayPatterns) > 2 {
			weekdayPatterns = weekdayPatterns[:2]
		}
		names := make([]string, 0, 2)
		for _, p := range weekdayPatterns {
			if name, ok := p.Metadata["weekday_name"].(string); ok {
				names = append(names, name)
			}
		}
		recommendations = append(recommendations, types.Recommendation{
			ID:          "weekly-schedule-optimization",
			Type:        types.RecommendationTypeSchedule,
			Priority:    types.PriorityMedium,
			Title:       "Optimize your weekly schedule",
			Description: fmt.Sprintf("Your best days are %s.", strings.Join(names, ", ")),
			Rationale:   "Based on your per-weekday performance pattern.",
			ActionItems: []string{
				fmt.Sprintf("Plan important study on %s", firstOr(names, "your best days")),
				"Use weaker days for review and cleanup",
				"Factor this into your weekly planning",
			},
			ExpectedImpact:           0.6,
			ImplementationDifficulty: 0.4,
			TimeToSeeResultsDays:     14,
			Category:                 "Weekly planning",
			Tags:                     []string{"weekday", "optimization", "planning"},
			Metadata:                 map[string]interface{}{"best_days": names},
			CreatedAt:                time.Now().UTC(),
		})
	}

	return recommendations
}

func (s *recommendationService) methodRecommendations(metrics types.LearningMetrics) []types.Recommendation {
	recommendations := make([]types.Recommendation, 0, 3)

	if metrics.ConsistencyScore < 60 {
		recommendations = append(recommendations, types.Recommendation{
			ID:          "improve-consistency-methods",
			Type:        types.RecommendationTypeMethod,
			Priority:    types.PriorityHigh,
			Title:       "Improve your consistency",
			Description: "Concrete techniques to make your study more consistent.",
			Rationale:   fmt.Sprintf("Your consistency score is %.0f and has room to improve.", metrics.ConsistencyScore),
			ActionItems: []string{
				"Start studying at the same time every day",
				"Set small goals first to build momentum",
				"Keep a study completion checklist",
				"Keep your study environment constant",
			},
			ExpectedImpact:           0.7,
			ImplementationDifficulty: 0.5,
			TimeToSeeResultsDays:     21,
			Category:                 "Study methods",
			Tags:                     []string{"consistency", "habit", "routine"},
			CreatedAt:                time.Now().UTC(),
		})
	}

	if metrics.GithubActivity < 10 {
		recommendations = append(recommendations, types.Recommendation{
			ID:          "increase-practical-learning",
			Type:        types.RecommendationTypeMethod,
			Priority:    types.PriorityMedium,
			Title:       "Strengthen hands-on practice",
			Description: "Raise your GitHub activity to balance theory with practice.",
			Rationale:   "Recent GitHub activity is low, which suggests a practice gap.",
			ActionItems: []string{
				"Turn what you learn into working code",
				"Build a small side project",
				"Aim for at least one commit per day",
				"Keep study notes in a GitHub repository",
			},
			ExpectedImpact:           0.6,
			ImplementationDifficulty: 0.4,
			TimeToSeeResultsDays:     14,
			Category:                 "Practical learning",
			Tags:                     []string{"github", "practice", "projects"},
			CreatedAt:                time.Now().UTC(),
		})
	}

	if metrics.AverageScore < 7 {
		recommendations = append(recommendations, types.Recommendation{
			ID:          "performance-improvement-methods",
			Type:        types.RecommendationTypeMethod,
			Priority:    types.PriorityHigh,
			Title:       "Adopt higher-yield study methods",
			Description: "Apply proven techniques to raise your scores.",
			Rationale:   fmt.Sprintf("Your average score is %.1f, which leaves room to improve.", metrics.AverageScore),
			ActionItems: []string{
				"Use active learning (summarize, question, explain)",
				"Use the Pomodoro technique to sustain focus",
				"Explain what you learned to someone else",
				"Draw concept maps to deepen understanding",
			},
			ExpectedImpact:           0.8,
			ImplementationDifficulty: 0.6,
			TimeToSeeResultsDays:     14,
			Category:                 "Study effectiveness",
			Tags:                     []string{"performance", "methods", "focus"},
			CreatedAt:                time.Now().UTC(),
		})
	}

	return recommendations
}

func (s *recommendationService) habitRecommendations(patterns []types.Pattern, predictions []types.Prediction) []types.Recommendation {
	recommendations := make([]types.Recommendation, 0, 2)

	goodHabits := make([]string, 0, 2)
	for _, p := range patterns {
		if p.Category == types.PatternCategoryHabit && p.Strength > 0.7 {
			goodHabits = append(goodHabits, p.Name)
		}
	}
	if len(goodHabits) > 0 {
		recommendations = append(recommendations, types.Recommendation{
			ID:          "maintain-good-habits",
			Type:        types.RecommendationTypeHabit,
			Priority:    types.PriorityMedium,
			Title:       "Keep your strong habits",
			Description: "Your current study habits are working. Keep them going.",
			Rationale:   "Consistent study patterns are producing good results.",
			ActionItems: []string{
				"Stick with your current study routine",
				"Use a habit tracker",
				"Set up small rewards for streaks",
			},
			ExpectedImpact:           0.6,
			ImplementationDifficulty: 0.2,
			TimeToSeeResultsDays:     7,
			Category:                 "Habit maintenance",
			Tags:                     []string{"habit", "maintenance", "routine"},
			Metadata:                 map[string]interface{}{"good_habits": goodHabits},
			CreatedAt:                time.Now().UTC(),
		})
	}

	for _, p := range predictions {
		if p.Type == types.PredictionTypeConsistency && p.PredictedValue < 70 {
			recommendations = append(recommendations, types.Recommendation{
				ID:          "build-learning-habits",
				Type:        types.RecommendationTypeHabit,
				Priority:    types.PriorityHigh,
				Title:       "Build a study habit",
				Description: "Create new habits that support steady daily study.",
				Rationale:   "Your predicted consistency is low; habit work will help.",
				ActionItems: []string{
					"Start a 21-day habit challenge",
					"Create a small pre-study ritual",
					"Mark every completed session",
					"Track your study streak",
				},
				ExpectedImpact:           0.8,
				ImplementationDifficulty: 0.7,
				TimeToSeeResultsDays:     21,
				Category:                 "Habit formation",
				Tags:                     []string{"habit", "consistency", "challenge"},
				CreatedAt:                time.Now().UTC(),
			})
			break
		}
	}

	return recommendations
}

func (s *recommendationService) goalRecommendations(metrics types.LearningMetrics) []types.Recommendation {
	recommendations := make([]types.Recommendation, 0, 2)

	recommendations = append(recommendations, types.Recommendation{
		ID:          "set-short-term-goals",
		Type:        types.RecommendationTypeGoal,
		Priority:    types.PriorityMedium,
		Title:       "Set short-term goals",
		Description: "Set concrete, achievable goals for the coming week.",
		Rationale:   "Clear goals sustain motivation and lift performance.",
		ActionItems: []string{
			"Set three weekly study goals",
			"Apply the SMART goal criteria",
			"Check progress daily",
			"Plan a reward for hitting the goals",
		},
		ExpectedImpact:           0.7,
		ImplementationDifficulty: 0.4,
		TimeToSeeResultsDays:     7,
		Category:                 "Goal setting",
		Tags:                     []string{"goals", "planning", "motivation"},
		CreatedAt:                time.Now().UTC(),
	})

	if metrics.AverageScore > 8 {
		recommendations = append(recommendations, types.Recommendation{
			ID:          "raise-learning-standards",
			Type:        types.RecommendationTypeGoal,
			Priority:    types.PriorityMedium,
			Title:       "Set a stretch goal",
			Description: "Your strong results support a more ambitious target.",
			Rationale:   fmt.Sprintf("You are averaging a high %.1f points.", metrics.AverageScore),
			ActionItems: []string{
				"Take on a harder project",
				"Learn a new technology stack",
				"Plan deeper, longer-form study",
				"Consider mentoring or formal courses",
			},
			ExpectedImpact:           0.8,
			ImplementationDifficulty: 0.8,
			TimeToSeeResultsDays:     30,
			Category:                 "Stretch goals",
			Tags:                     []string{"challenge", "growth", "development"},
			CreatedAt:                time.Now().UTC(),
		})
	}

	return recommendations
}

func (s *recommendationService) wellnessRecommendations(metrics types.LearningMetrics) []types.Recommendation {
	recommendations := make([]types.Recommendation, 0, 2)

	if metrics.AverageCondition < 3.5 && metrics.TotalReflections > 0 {
		recommendations = append(recommendations, types.Recommendation{
			ID:          "improve-wellness",
			Type:        types.RecommendationTypeBreak,
			Priority:    types.PriorityHigh,
			Title:       "Manage your condition",
			Description: "Physical and mental condition needs attention to protect your results.",
			Rationale:   "Recent condition entries are low enough to affect performance.",
			ActionItems: []string{
				"Get 7 to 8 hours of sleep",
				"Schedule regular exercise",
				"Take a 10-minute break mid-session",
				"Practice stress management",
			},
			ExpectedImpact:           0.7,
			ImplementationDifficulty: 0.6,
			TimeToSeeResultsDays:     14,
			Category:                 "Health",
			Tags:                     []string{"condition", "rest", "health"},
			CreatedAt:                time.Now().UTC(),
		})
	}

	if metrics.TotalReflections > 20 && metrics.ConsistencyScore > 80 {
		recommendations = append(recommendations, types.Recommendation{
			ID:          "prevent-burnout",
			Type:        types.RecommendationTypeBreak,
			Priority:    types.PriorityMedium,
			Title:       "Prevent burnout",
			Description: "Your consistency is excellent, but rest matters too.",
			Rationale:   "Sustained high-intensity study raises burnout risk.",
			ActionItems: []string{
				"Take one full rest day per week",
				"Protect time for hobbies",
				"Spend time with friends and family",
				"Take walks outdoors",
			},
			ExpectedImpact:           0.6,
			ImplementationDifficulty: 0.3,
			TimeToSeeResultsDays:     7,
			Category:                 "Burnout prevention",
			Tags:                     []string{"rest", "balance", "prevention"},
			CreatedAt:                time.Now().UTC(),
		})
	}

	return recommendations
}

func (s *recommendationService) productivityRecommendations(patterns []types.Pattern) []types.Recommendation {
	recommendations := make([]types.Recommendation, 0, 1)

	for _, p := range patterns {
		if p.Category != types.PatternCategoryProductivity {
			continue
		}
		avgProductivity, _ := p.Metadata["average_productivity"].(float64)
		recommendations = append(recommendations, types.Recommendation{
			ID:          "replicate-productive-conditions",
			Type:        types.RecommendationTypeProductivity,
			Priority:    types.PriorityHigh,
			Title:       "Replicate your productive conditions",
			Description: "Apply the conditions behind your best days to the rest of your schedule.",
			Rationale:   fmt.Sprintf("Under the right conditions you reached %.0f%% productivity.", avgProductivity),
			ActionItems: []string{
				"Analyze what made those days work and write it down",
				"Recreate the same environment",
				"Use your productive times and places",
				"Remove distractions",
			},
			ExpectedImpact:           0.8,
			ImplementationDifficulty: 0.5,
			TimeToSeeResultsDays:     7,
			Category:                 "Productivity",
			Tags:                     []string{"productivity", "environment", "optimization"},
			Metadata:                 map[string]interface{}{"factors": p.Metadata["factors"]},
			CreatedAt:                time.Now().UTC(),
		})
		break
	}

	return recommendations
}

// prioritizeRecommendations orders in place by a blend of priority weight,
// expected impact and ease of implementation.
func prioritizeRecommendations(recommendations []types.Recommendation) {
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendationRank(recommendations[i]) > recommendationRank(recommendations[j])
	})
}

func recommendationRank(rec types.Recommendation) float64 {
	return float64(rec.Priority.Weight())*3 + rec.ExpectedImpact*2 + (1 - rec.ImplementationDifficulty)
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
