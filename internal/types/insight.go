package types

import "time"

type InsightType string

const (
	InsightTypePerformance    InsightType = "performance"
	InsightTypePattern        InsightType = "pattern"
	InsightTypeRecommendation InsightType = "recommendation"
	InsightTypePrediction     InsightType = "prediction"
	InsightTypeWarning        InsightType = "warning"
)

// Insight is the final merge unit handed to the presentation layer.
type Insight struct {
	ID          string                 `json:"id"`
	Type        InsightType            `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Value       *float64               `json:"value,omitempty"`
	Change      *float64               `json:"change,omitempty"`
	Trend       Trend                  `json:"trend,omitempty"`
	Priority    Priority               `json:"priority"`
	Confidence  float64                `json:"confidence"`
	Actionable  bool                   `json:"actionable"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// AnalysisSummary is the count block attached to a comprehensive analysis.
type AnalysisSummary struct {
	TotalInsights             int `json:"total_insights"`
	StrongPatterns            int `json:"strong_patterns"`
	HighConfidencePredictions int `json:"high_confidence_predictions"`
	ActionableRecommendations int `json:"actionable_recommendations"`
}

// ComprehensiveAnalysis is the single merged response used by the dashboard.
type ComprehensiveAnalysis struct {
	Insights        []Insight        `json:"insights"`
	Patterns        []Pattern        `json:"patterns"`
	Predictions     []Prediction     `json:"predictions"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         AnalysisSummary  `json:"summary"`
}

// RiskAssessment aggregates the rule-based risk predictions into one view.
type RiskAssessment struct {
	Risks             []Prediction `json:"risks"`
	RiskLevel         Severity     `json:"risk_level"`
	MitigationActions []string     `json:"mitigation_actions"`
}

type GrowthMilestone struct {
	Day        int     `json:"day"`
	Goal       string  `json:"goal"`
	Confidence float64 `json:"confidence"`
}

// GrowthPath is the longer-range view: strongest current patterns, projected
// trajectory, and an action plan with milestones.
type GrowthPath struct {
	CurrentStrengths []Pattern         `json:"current_strengths"`
	ProjectedGrowth  []TrajectoryPoint `json:"projected_growth"`
	ActionPlan       PersonalizedPlan  `json:"action_plan"`
	Milestones       []GrowthMilestone `json:"milestones"`
}

// AnalyticsData is the raw window echo used by chart views: both record sets
// plus summary stats.
type AnalyticsData struct {
	Reflections []Reflection     `json:"reflections"`
	Activities  []GithubActivity `json:"github_activities"`
	Stats       WindowStats      `json:"stats"`
}
