package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GithubActivity is one day of repository activity for a user, aggregated
// across repositories by the external sync pipeline. ActivityLevel is a 0-4
// bucket derived from commit volume at ingestion time.
type GithubActivity struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_activity_user_date" json:"user_id"`
	Date            time.Time      `gorm:"type:date;not null;uniqueIndex:idx_activity_user_date" json:"date"`
	CommitCount     int            `gorm:"not null;default:0" json:"commit_count"`
	RepositoryCount int            `gorm:"not null;default:0" json:"repository_count"`
	Languages       datatypes.JSON `gorm:"type:jsonb" json:"languages,omitempty"`
	ActivityLevel   int            `gorm:"not null;default:0" json:"activity_level"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GithubActivity) TableName() string { return "github_activity" }
