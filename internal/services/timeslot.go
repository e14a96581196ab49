package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/repos"
	"github.com/lgdx/analytics-backend/internal/types"
)

// TimeSlotService breaks a user's window down by time slot and by weekday.
// The weekday breakdown is a separately shaped view consumed by the pattern
// detector and the optimal-days computation; it does not feed back into the
// slot rows.
type TimeSlotService interface {
	AnalyzeTimeSlots(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.TimeSlotPerformance, error)
	AnalyzeWeekdays(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.WeekdayPerformance, error)
}

type timeSlotService struct {
	db     *gorm.DB
	log    *logger.Logger
	refl   repos.ReflectionRepo
	tuning Tuning
}

func NewTimeSlotService(db *gorm.DB, log *logger.Logger, refl repos.ReflectionRepo, tuning Tuning) TimeSlotService {
	return &timeSlotService{
		db:     db,
		log:    log.With("service", "TimeSlotService"),
		refl:   refl,
		tuning: tuning,
	}
}

func (s *timeSlotService) AnalyzeTimeSlots(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.TimeSlotPerformance, error) {
	if windowDays <= 0 {
		windowDays = s.tuning.DefaultWindowDays
	}
	start, end := analysisWindow(windowDays)

	reflections, err := s.refl.GetByUserAndDateRange(ctx, nil, userID, start, end)
	if err != nil {
		s.log.Warn("reflection query failed, degrading to empty window", "user_id", userID.String(), "error", err)
		reflections = nil
	}

	out := make([]types.TimeSlotPerformance, 0, 3)
	for _, slot := range types.AllTimeSlots() {
		slotReflections := make([]*types.Reflection, 0, len(reflections))
		for _, r := range reflections {
			if r.TimeSlot == slot {
				slotReflections = append(slotReflections, r)
			}
		}

		scores := make([]float64, 0, len(slotReflections))
		for _, r := range slotReflections {
			scores = append(scores, r.OverallScore)
		}
		stats := computeSlotStats(scores, s.tuning.ConsistencyStdevPenalty)

		out = append(out, types.TimeSlotPerformance{
			TimeSlot:         slot,
			AverageScore:     stats.averageScore,
			ConsistencyScore: stats.consistency,
			ActivityCount:    stats.count,
			ImprovementTrend: shortTermTrend(scores),
			OptimalDays:      optimalDays(slotReflections, stats.averageScore),
		})
	}
	return out, nil
}

func (s *timeSlotService) AnalyzeWeekdays(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.WeekdayPerformance, error) {
	if windowDays <= 0 {
		windowDays = s.tuning.DefaultWindowDays
	}
	start, end := analysisWindow(windowDays)

	reflections, err := s.refl.GetByUserAndDateRange(ctx, nil, userID, start, end)
	if err != nil {
		s.log.Warn("reflection query failed, degrading to empty window", "user_id", userID.String(), "error", err)
		reflections = nil
	}

	byWeekday := groupScoresByWeekday(reflections)
	weeks := float64(windowDays) / 7

	out := make([]types.WeekdayPerformance, 0, len(byWeekday))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		scores, ok := byWeekday[wd]
		if !ok {
			continue
		}
		stats := computeSlotStats(scores, s.tuning.ConsistencyStdevPenalty)
		frequency := 0.0
		if weeks > 0 {
			frequency = float64(stats.count) / weeks
		}
		out = append(out, types.WeekdayPerformance{
			Weekday:          int(wd),
			WeekdayName:      wd.String(),
			AverageScore:     stats.averageScore,
			ConsistencyScore: stats.consistency,
			SessionCount:     stats.count,
			Frequency:        frequency,
		})
	}
	return out, nil
}

// shortTermTrend compares the last seven scores against the seven before
// them, as a percentage of the earlier average.
func shortTermTrend(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	recentStart := len(scores) - 7
	if recentStart < 0 {
		recentStart = 0
	}
	recent := scores[recentStart:]

	prevStart := recentStart - 7
	if prevStart < 0 {
		prevStart = 0
	}
	previous := scores[prevStart:recentStart]
	if len(previous) == 0 {
		return 0
	}

	recentAvg := mean(recent)
	previousAvg := mean(previous)
	return (recentAvg - previousAvg) / math.Max(previousAvg, 1) * 100
}

// optimalDays lists the weekdays whose average meets or beats the slot's
// overall average, best first, capped at three.
func optimalDays(reflections []*types.Reflection, slotAverage float64) []string {
	byWeekday := groupScoresByWeekday(reflections)

	type dayAvg struct {
		name string
		avg  float64
	}
	candidates := make([]dayAvg, 0, len(byWeekday))
	for wd, scores := range byWeekday {
		avg := mean(scores)
		if avg >= slotAverage {
			candidates = append(candidates, dayAvg{name: wd.String(), avg: avg})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].avg > candidates[j].avg })

	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.name)
	}
	return out
}
