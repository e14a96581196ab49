package types

import "time"

type RecommendationType string

const (
	RecommendationTypeSchedule     RecommendationType = "schedule"
	RecommendationTypeMethod       RecommendationType = "method"
	RecommendationTypeHabit        RecommendationType = "habit"
	RecommendationTypeGoal         RecommendationType = "goal"
	RecommendationTypeBreak        RecommendationType = "break"
	RecommendationTypeSubject      RecommendationType = "subject"
	RecommendationTypeProductivity RecommendationType = "productivity"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the ordering weight used when ranking recommendations and
// insights.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Recommendation is one prioritized, actionable suggestion.
type Recommendation struct {
	ID                       string                 `json:"id"`
	Type                     RecommendationType     `json:"type"`
	Priority                 Priority               `json:"priority"`
	Title                    string                 `json:"title"`
	Description              string                 `json:"description"`
	Rationale                string                 `json:"rationale"`
	ActionItems              []string               `json:"action_items"`
	ExpectedImpact           float64                `json:"expected_impact"`
	ImplementationDifficulty float64                `json:"implementation_difficulty"`
	TimeToSeeResultsDays     int                    `json:"time_to_see_results_days"`
	Category                 string                 `json:"category"`
	Tags                     []string               `json:"tags"`
	Metadata                 map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt                time.Time              `json:"created_at"`
}

// PersonalizedPlan is the action-plan skeleton attached to a growth path.
type PersonalizedPlan struct {
	UserID               string     `json:"user_id"`
	PlanName             string     `json:"plan_name"`
	DurationDays         int        `json:"duration_days"`
	Objectives           []string   `json:"objectives"`
	DailyRecommendations []PlanStep `json:"daily_recommendations"`
	Milestones           []PlanStep `json:"milestones"`
	Adaptations          []string   `json:"adaptations"`
}

type PlanStep struct {
	Day      int    `json:"day"`
	TimeSlot string `json:"time_slot,omitempty"`
	Activity string `json:"activity,omitempty"`
	Goal     string `json:"goal,omitempty"`
	Metric   string `json:"metric,omitempty"`
}
