package types

import "time"

type PredictionType string

const (
	PredictionTypeScore           PredictionType = "score"
	PredictionTypeProductivity    PredictionType = "productivity"
	PredictionTypeConsistency     PredictionType = "consistency"
	PredictionTypeGoalAchievement PredictionType = "goal_achievement"
	PredictionTypeRisk            PredictionType = "risk"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Prediction is a short-horizon numeric projection. Confidence is an ad-hoc
// linear remap of the regression r² value, not a calibrated probability;
// callers should treat it as a relative weight only. For risk predictions
// PredictedValue is a probability-like score in [0,100], not a score-scale
// value.
type Prediction struct {
	ID              string                 `json:"id"`
	Type            PredictionType         `json:"type"`
	TimeHorizonDays int                    `json:"time_horizon_days"`
	PredictedValue  float64                `json:"predicted_value"`
	Confidence      float64                `json:"confidence"`
	Trend           Trend                  `json:"trend"`
	Factors         []string               `json:"factors"`
	Description     string                 `json:"description"`
	Recommendations []string               `json:"recommendations"`
	CreatedAt       time.Time              `json:"created_at"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// RiskFactor is a rule-triggered warning signal, distinct from the
// regression-based predictions.
type RiskFactor struct {
	Factor      string   `json:"factor"`
	Severity    Severity `json:"severity"`
	Probability float64  `json:"probability"`
	Impact      float64  `json:"impact"`
	Mitigation  []string `json:"mitigation"`
}

// TrajectoryPoint is one day of the longer-range score projection.
type TrajectoryPoint struct {
	Date           string   `json:"date"`
	PredictedScore float64  `json:"predicted_score"`
	Confidence     float64  `json:"confidence"`
	Factors        []string `json:"factors"`
}
