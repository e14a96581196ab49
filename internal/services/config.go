package services

import "time"

// Tuning collects every threshold and composite weight used by the analytics
// services. The values mirror what the dashboard shipped with; they are
// heuristics, not derived constants, so they live here where they can be
// overridden per deployment and exercised independently in tests.
type Tuning struct {
	// Window defaults.
	DefaultWindowDays      int
	PredictionHorizonDays  int
	TrajectoryHorizonDays  int
	RegressionLookbackDays int
	RiskLookbackDays       int

	// Metrics aggregation.
	ConsistencyStdevPenalty float64 // consistency = 100 - penalty*stdev
	ProductivityScoreWeight float64 // applied to averageScore rescaled to 0-100
	ProductivityConsWeight  float64 // applied to consistencyScore
	ProductivityActWeight   float64 // applied to min(commits/ActivitySaturation, 1)
	ActivitySaturation      float64

	// Pattern detection.
	SlotPatternMinAvg       float64
	SlotPatternMinFrequency float64
	WeekdayPatternMinAvg    float64
	WeekdayPatternMinCount  int
	DayCompositeScoreWeight float64 // 0.7 * reflection score
	DayCompositeActWeight   float64 // 30 * min(commits/DayCompositeActSat, 1)
	DayCompositeActSat      float64
	HighProductivityCutoff  float64
	HighProductivityMinDays int
	DominantWeekdayShare    float64
	HabitMinCommitsPerDay   float64
	HabitCommitsSaturation  float64
	HabitMinCoverage        float64
	DominantConditionShare  float64

	// Prediction. The pattern adjustment weights are placeholder heuristics
	// carried over from the dashboard; flagged for product review.
	PatternTimeWeight        float64
	PatternHabitWeight       float64
	PatternProdWeight        float64
	PatternAdjustmentLimit   float64
	ScoreTrendSlopeCutoff    float64
	ProdTrendSlopeCutoff     float64
	ConsTrendSlopeCutoff     float64
	RiskMinRecentReflections int
	RiskLowScoreCutoff       float64
	RiskFatigueShare         float64

	// Recommendation ranking and quick wins.
	QuickWinMaxDifficulty float64
	QuickWinMinImpact     float64
	QuickWinMaxDays       int

	// Orchestration.
	BranchTimeout time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		DefaultWindowDays:      30,
		PredictionHorizonDays:  7,
		TrajectoryHorizonDays:  30,
		RegressionLookbackDays: 30,
		RiskLookbackDays:       14,

		ConsistencyStdevPenalty: 10,
		ProductivityScoreWeight: 0.6,
		ProductivityConsWeight:  0.2,
		ProductivityActWeight:   20,
		ActivitySaturation:      10,

		SlotPatternMinAvg:       7,
		SlotPatternMinFrequency: 0.3,
		WeekdayPatternMinAvg:    7,
		WeekdayPatternMinCount:  3,
		DayCompositeScoreWeight: 0.7,
		DayCompositeActWeight:   30,
		DayCompositeActSat:      5,
		HighProductivityCutoff:  70,
		HighProductivityMinDays: 3,
		DominantWeekdayShare:    0.4,
		HabitMinCommitsPerDay:   2,
		HabitCommitsSaturation:  5,
		HabitMinCoverage:        0.7,
		DominantConditionShare:  0.6,

		PatternTimeWeight:        0.5,
		PatternHabitWeight:       0.3,
		PatternProdWeight:        0.4,
		PatternAdjustmentLimit:   1.5,
		ScoreTrendSlopeCutoff:    0.05,
		ProdTrendSlopeCutoff:     1,
		ConsTrendSlopeCutoff:     2,
		RiskMinRecentReflections: 7,
		RiskLowScoreCutoff:       5,
		RiskFatigueShare:         0.6,

		QuickWinMaxDifficulty: 0.4,
		QuickWinMinImpact:     0.6,
		QuickWinMaxDays:       7,

		BranchTimeout: 10 * time.Second,
	}
}
