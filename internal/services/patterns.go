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

// PatternService scans a user's window for recurring behavioral structure:
// strong time slots, strong weekdays, productive-day clusters, activity and
// reflection habits, and condition dominance. It re-derives slot and weekday
// statistics from raw records on purpose (see computeSlotStats): the
// detector stays independently testable and replaceable, with no ordering
// coupling to the time-slot analyzer.
type PatternService interface {
	AnalyzeAllPatterns(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.Pattern, error)
	GetPatternsByCategory(ctx context.Context, userID uuid.UUID, windowDays int, category types.PatternCategory) ([]types.Pattern, error)
	GetStrongestPatterns(ctx context.Context, userID uuid.UUID, windowDays, limit int) ([]types.Pattern, error)
	PredictOptimalSchedule(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.SchedulePattern, error)
	GetPersonalizedTips(ctx context.Context, userID uuid.UUID, windowDays int) ([]string, error)
}

type patternService struct {
	db     *gorm.DB
	log    *logger.Logger
	refl   repos.ReflectionRepo
	act    repos.ActivityRepo
	tuning Tuning
}

func NewPatternService(db *gorm.DB, log *logger.Logger, refl repos.ReflectionRepo, act repos.ActivityRepo, tuning Tuning) PatternService {
	return &patternService{
		db:     db,
		log:    log.With("service", "PatternService"),
		refl:   refl,
		act:    act,
		tuning: tuning,
	}
}

func (s *patternService) AnalyzeAllPatterns(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.Pattern, error) {
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

	patterns := make([]types.Pattern, 0, 8)
	patterns = append(patterns, s.timeSlotPatterns(reflections, windowDays, start, end)...)
	patterns = append(patterns, s.weekdayPatterns(reflections, windowDays, start, end)...)
	patterns = append(patterns, s.productivityPatterns(reflections, activities, windowDays, start, end)...)
	patterns = append(patterns, s.habitPatterns(reflections, activities, windowDays, start, end)...)
	patterns = append(patterns, s.conditionPatterns(reflections, windowDays, start, end)...)

	sort.SliceStable(patterns, func(i, j int) bool { return patterns[i].Strength > patterns[j].Strength })
	return patterns, nil
}

func (s *patternService) GetPatternsByCategory(ctx context.Context, userID uuid.UUID, windowDays int, category types.PatternCategory) ([]types.Pattern, error) {
	all, err := s.AnalyzeAllPatterns(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}
	out := make([]types.Pattern, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *patternService) GetStrongestPatterns(ctx context.Context, userID uuid.UUID, windowDays, limit int) ([]types.Pattern, error) {
	all, err := s.AnalyzeAllPatterns(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// PredictOptimalSchedule projects schedule rows out of the detected time
// patterns, strongest average first.
func (s *patternService) PredictOptimalSchedule(ctx context.Context, userID uuid.UUID, windowDays int) ([]types.SchedulePattern, error) {
	timePatterns, err := s.GetPatternsByCategory(ctx, userID, windowDays, types.PatternCategoryTime)
	if err != nil {
		return nil, err
	}

	out := make([]types.SchedulePattern, 0, len(timePatterns))
	for _, p := range timePatterns {
		slot, ok := p.Metadata["time_slot"].(string)
		if !ok {
			continue
		}
		avg, _ := p.Metadata["average_score"].(float64)
		weekday, _ := p.Metadata["weekday"].(int)
		out = append(out, types.SchedulePattern{
			TimeSlot:     slot,
			Weekday:      weekday,
			AverageScore: avg,
			Frequency:    p.Frequency,
			Consistency:  p.Consistency,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	return out, nil
}

// GetPersonalizedTips renders one-line suggestions from the strongest
// detected patterns, capped at five.
func (s *patternService) GetPersonalizedTips(ctx context.Context, userID uuid.UUID, windowDays int) ([]string, error) {
	patterns, err := s.AnalyzeAllPatterns(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	tips := make([]string, 0, 5)
	for _, p := range patterns {
		switch p.Category {
		case types.PatternCategoryTime:
			if p.Strength > 0.7 {
				slot, _ := p.Metadata["time_slot"].(string)
				if slot == "" {
					slot = "your strongest time slot"
				}
				tips = append(tips, fmt.Sprintf("Schedule your most important study during %s.", slot))
			}
		case types.PatternCategoryHabit:
			if p.Strength > 0.8 {
				tips = append(tips, fmt.Sprintf("Keep up your current %s.", p.Name))
			}
		case types.PatternCategoryProductivity:
			if factors, ok := p.Metadata["factors"].([]string); ok && len(factors) > 0 {
				tips = append(tips, fmt.Sprintf("You perform best under these conditions: %s.", joinFactors(factors)))
			}
		}
		if len(tips) == 5 {
			break
		}
	}
	return tips, nil
}

func (s *patternService) timeSlotPatterns(reflections []*types.Reflection, windowDays int, start, end time.Time) []types.Pattern {
	patterns := make([]types.Pattern, 0, 3)
	bySlot := groupScoresBySlot(reflections)

	for _, slot := range types.AllTimeSlots() {
		scores, ok := bySlot[slot]
		if !ok {
			continue
		}
		stats := computeSlotStats(scores, s.tuning.ConsistencyStdevPenalty)
		frequency := float64(stats.count) / float64(windowDays)

		if stats.averageScore > s.tuning.SlotPatternMinAvg && frequency > s.tuning.SlotPatternMinFrequency {
			patterns = append(patterns, types.Pattern{
				ID:            fmt.Sprintf("time-pattern-%s", slot),
				Name:          fmt.Sprintf("High performance in the %s slot", slot),
				Description:   fmt.Sprintf("Averaging %.1f points during the %s slot.", stats.averageScore, slot),
				Category:      types.PatternCategoryTime,
				Strength:      math.Min(1, stats.averageScore/10*frequency),
				Frequency:     frequency,
				Consistency:   math.Max(0, 1-stdev(scores)/10),
				FirstDetected: start,
				LastDetected:  end,
				Trend:         types.PatternTrendStable,
				Metadata: map[string]interface{}{
					"time_slot":      string(slot),
					"average_score":  stats.averageScore,
					"total_sessions": stats.count,
				},
			})
		}
	}
	return patterns
}

func (s *patternService) weekdayPatterns(reflections []*types.Reflection, windowDays int, start, end time.Time) []types.Pattern {
	patterns := make([]types.Pattern, 0, 2)
	byWeekday := groupScoresByWeekday(reflections)
	weeks := windowDays / 7

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		scores, ok := byWeekday[wd]
		if !ok {
			continue
		}
		avg := mean(scores)
		frequency := 0.0
		if weeks > 0 {
			frequency = float64(len(scores)) / float64(weeks)
		}

		if avg > s.tuning.WeekdayPatternMinAvg && len(scores) >= s.tuning.WeekdayPatternMinCount {
			patterns = append(patterns, types.Pattern{
				ID:            fmt.Sprintf("day-pattern-%d", int(wd)),
				Name:          fmt.Sprintf("%s peak performance", wd),
				Description:   fmt.Sprintf("Averaging %.1f points on %ss.", avg, wd),
				Category:      types.PatternCategoryTime,
				Strength:      math.Min(1, avg/10),
				Frequency:     frequency,
				Consistency:   0.8,
				FirstDetected: start,
				LastDetected:  end,
				Trend:         types.PatternTrendStable,
				Metadata: map[string]interface{}{
					"weekday":       int(wd),
					"weekday_name":  wd.String(),
					"average_score": avg,
				},
			})
		}
	}
	return patterns
}

// dayComposite is one day's blended productivity: reflection score weighted
// against capped commit volume.
type dayComposite struct {
	date      time.Time
	commits   int
	score     float64
	composite float64
}

func (s *patternService) productivityPatterns(reflections []*types.Reflection, activities []*types.GithubActivity, windowDays int, start, end time.Time) []types.Pattern {
	patterns := make([]types.Pattern, 0, 2)

	daily := make(map[string]*dayComposite)
	for _, r := range reflections {
		key := dateKey(r.Date)
		d, ok := daily[key]
		if !ok {
			d = &dayComposite{date: r.Date}
			daily[key] = d
		}
		if r.OverallScore > d.score {
			d.score = r.OverallScore
		}
	}
	for _, a := range activities {
		key := dateKey(a.Date)
		d, ok := daily[key]
		if !ok {
			d = &dayComposite{date: a.Date}
			daily[key] = d
		}
		d.commits += a.CommitCount
	}

	highDays := make([]*dayComposite, 0, len(daily))
	for _, d := range daily {
		d.composite = d.score*s.tuning.DayCompositeScoreWeight +
			math.Min(float64(d.commits)/s.tuning.DayCompositeActSat, 1)*s.tuning.DayCompositeActWeight
		if d.composite > s.tuning.HighProductivityCutoff {
			highDays = append(highDays, d)
		}
	}

	if len(highDays) >= s.tuning.HighProductivityMinDays {
		var sum float64
		for _, d := range highDays {
			sum += d.composite
		}
		avgComposite := sum / float64(len(highDays))

		patterns = append(patterns, types.Pattern{
			ID:            "high-productivity-pattern",
			Name:          "High-productivity days",
			Description:   fmt.Sprintf("Under the right conditions you average %.0f%% productivity.", avgComposite),
			Category:      types.PatternCategoryProductivity,
			Strength:      math.Min(1, avgComposite/100),
			Frequency:     float64(len(highDays)) / float64(windowDays),
			Consistency:   0.8,
			FirstDetected: start,
			LastDetected:  end,
			Trend:         types.PatternTrendStable,
			Metadata: map[string]interface{}{
				"average_productivity":   avgComposite,
				"high_productivity_days": len(highDays),
				"factors":                s.productivityFactors(highDays),
			},
		})
	}
	return patterns
}

// productivityFactors names what the high-productivity days had in common.
func (s *patternService) productivityFactors(highDays []*dayComposite) []string {
	factors := make([]string, 0, 3)
	if len(highDays) == 0 {
		return factors
	}

	var commitSum, scoreSum float64
	for _, d := range highDays {
		commitSum += float64(d.commits)
		scoreSum += d.score
	}
	if commitSum/float64(len(highDays)) > 3 {
		factors = append(factors, "High commit volume")
	}
	if scoreSum/float64(len(highDays)) > 8 {
		factors = append(factors, "High reflection scores")
	}

	dayCount := make(map[time.Weekday]int)
	for _, d := range highDays {
		dayCount[d.date.Weekday()]++
	}
	var dominant time.Weekday
	best := 0
	for wd, n := range dayCount {
		if n > best {
			dominant, best = wd, n
		}
	}
	if best > 0 && float64(best)/float64(len(highDays)) > s.tuning.DominantWeekdayShare {
		factors = append(factors, fmt.Sprintf("Concentrated on %ss", dominant))
	}
	return factors
}

func (s *patternService) habitPatterns(reflections []*types.Reflection, activities []*types.GithubActivity, windowDays int, start, end time.Time) []types.Pattern {
	patterns := make([]types.Pattern, 0, 2)

	var totalCommits int
	for _, a := range activities {
		totalCommits += a.CommitCount
	}
	avgCommitsPerDay := float64(totalCommits) / float64(windowDays)

	if avgCommitsPerDay > s.tuning.HabitMinCommitsPerDay {
		patterns = append(patterns, types.Pattern{
			ID:            "consistent-github-activity",
			Name:          "Consistent GitHub activity",
			Description:   fmt.Sprintf("Averaging %.1f commits per day.", avgCommitsPerDay),
			Category:      types.PatternCategoryHabit,
			Strength:      math.Min(1, avgCommitsPerDay/s.tuning.HabitCommitsSaturation),
			Frequency:     float64(len(activities)) / float64(windowDays),
			Consistency:   0.7,
			FirstDetected: start,
			LastDetected:  end,
			Trend:         types.PatternTrendStable,
			Metadata: map[string]interface{}{
				"avg_commits_per_day": avgCommitsPerDay,
				"total_commits":       totalCommits,
				"active_days":         len(activities),
			},
		})
	}

	reflectionDays := make(map[string]struct{})
	for _, r := range reflections {
		reflectionDays[dateKey(r.Date)] = struct{}{}
	}
	// The inclusive window spans windowDays+1 distinct dates, so a user
	// reflecting every day would push raw coverage past 1. Cap it like the
	// other pattern families cap their strength.
	coverage := math.Min(1, float64(len(reflectionDays))/float64(windowDays))

	if coverage > s.tuning.HabitMinCoverage {
		patterns = append(patterns, types.Pattern{
			ID:            "consistent-reflection-habit",
			Name:          "Steady reflection habit",
			Description:   fmt.Sprintf("Reflections written on %.0f%% of days.", coverage*100),
			Category:      types.PatternCategoryHabit,
			Strength:      coverage,
			Frequency:     coverage,
			Consistency:   coverage,
			FirstDetected: start,
			LastDetected:  end,
			Trend:         types.PatternTrendStable,
			Metadata: map[string]interface{}{
				"covered_days":     len(reflectionDays),
				"total_days":       windowDays,
				"consistency_rate": coverage,
			},
		})
	}
	return patterns
}

func (s *patternService) conditionPatterns(reflections []*types.Reflection, windowDays int, start, end time.Time) []types.Pattern {
	patterns := make([]types.Pattern, 0, 1)
	if len(reflections) == 0 {
		return patterns
	}

	counts := make(map[types.Condition]int)
	for _, r := range reflections {
		counts[r.Condition]++
	}
	var dominant types.Condition
	best := 0
	for c, n := range counts {
		if n > best {
			dominant, best = c, n
		}
	}

	share := float64(best) / float64(len(reflections))
	if share > s.tuning.DominantConditionShare {
		patterns = append(patterns, types.Pattern{
			ID:            fmt.Sprintf("condition-pattern-%s", dominant),
			Name:          fmt.Sprintf("Dominant '%s' condition", dominant),
			Description:   fmt.Sprintf("Most sessions are logged in '%s' condition.", dominant),
			Category:      types.PatternCategoryCondition,
			Strength:      share,
			Frequency:     float64(best) / float64(windowDays),
			Consistency:   0.9,
			FirstDetected: start,
			LastDetected:  end,
			Trend:         types.PatternTrendStable,
			Metadata: map[string]interface{}{
				"condition":  string(dominant),
				"count":      best,
				"percentage": share * 100,
			},
		})
	}
	return patterns
}

func joinFactors(factors []string) string {
	return strings.Join(factors, ", ")
}
