package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
)

func AllTimeSlots() []TimeSlot {
	return []TimeSlot{TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening}
}

type Condition string

const (
	ConditionBest      Condition = "best"
	ConditionGood      Condition = "good"
	ConditionNormal    Condition = "normal"
	ConditionTired     Condition = "tired"
	ConditionExhausted Condition = "exhausted"
)

// Ordinal maps a condition onto a 1-5 scale for arithmetic. Unknown values
// fall back to the neutral midpoint.
func (c Condition) Ordinal() float64 {
	switch c {
	case ConditionBest:
		return 5
	case ConditionGood:
		return 4
	case ConditionNormal:
		return 3
	case ConditionTired:
		return 2
	case ConditionExhausted:
		return 1
	default:
		return 3
	}
}

// Reflection is one self-reported study record for a (user, date, time slot).
// Rows are owned by the reflection form in the dashboard; this service only
// reads them.
type Reflection struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_reflection_user_date_slot" json:"user_id"`
	Date               time.Time      `gorm:"type:date;not null;uniqueIndex:idx_reflection_user_date_slot" json:"date"`
	TimeSlot           TimeSlot       `gorm:"type:text;not null;uniqueIndex:idx_reflection_user_date_slot" json:"time_slot"`
	UnderstandingScore int            `gorm:"not null" json:"understanding_score"`
	ConcentrationScore int            `gorm:"not null" json:"concentration_score"`
	AchievementScore   int            `gorm:"not null" json:"achievement_score"`
	OverallScore       float64        `gorm:"not null" json:"overall_score"`
	Condition          Condition      `gorm:"type:text;not null" json:"condition"`
	Achievements       datatypes.JSON `gorm:"type:jsonb" json:"achievements,omitempty"`
	Difficulties       datatypes.JSON `gorm:"type:jsonb" json:"difficulties,omitempty"`
	TomorrowGoals      datatypes.JSON `gorm:"type:jsonb" json:"tomorrow_goals,omitempty"`
	GithubCommits      int            `gorm:"default:0" json:"github_commits"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Reflection) TableName() string { return "daily_reflection" }
