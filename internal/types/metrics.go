package types

// LearningMetrics is the scalar summary of a user's window. Recomputed on
// every query, never persisted.
type LearningMetrics struct {
	TotalReflections  int     `json:"total_reflections"`
	AverageScore      float64 `json:"average_score"`
	AverageCondition  float64 `json:"average_condition"`
	ConsistencyScore  float64 `json:"consistency_score"`
	ImprovementRate   float64 `json:"improvement_rate"`
	GithubActivity    int     `json:"github_activity"`
	ProductivityScore float64 `json:"productivity_score"`
}

// TimeSlotPerformance is the per-slot breakdown of the same window.
type TimeSlotPerformance struct {
	TimeSlot         TimeSlot `json:"time_slot"`
	AverageScore     float64  `json:"average_score"`
	ConsistencyScore float64  `json:"consistency_score"`
	ActivityCount    int      `json:"activity_count"`
	ImprovementTrend float64  `json:"improvement_trend"`
	OptimalDays      []string `json:"optimal_days"`
}

// WeekdayPerformance is the parallel weekday breakdown consumed by the
// pattern detector.
type WeekdayPerformance struct {
	Weekday          int     `json:"weekday"`
	WeekdayName      string  `json:"weekday_name"`
	AverageScore     float64 `json:"average_score"`
	ConsistencyScore float64 `json:"consistency_score"`
	SessionCount     int     `json:"session_count"`
	Frequency        float64 `json:"frequency"`
}

// WindowStats is the summary block returned alongside raw window data.
type WindowStats struct {
	TotalReflections int     `json:"total_reflections"`
	AvgScore         float64 `json:"avg_score"`
	AvgCondition     float64 `json:"avg_condition"`
	TotalCommits     int     `json:"total_commits"`
	ActiveDays       int     `json:"active_days"`
	Consistency      float64 `json:"consistency"`
}
