package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/types"
)

var testUserID = uuid.MustParse("5f0c4aa8-7f3a-4a1b-93a0-1f2e3d4c5b6a")

// newTestDB opens a per-test in-memory database. The production schema uses
// postgres defaults, so the tables are created with portable DDL here and
// rows always carry explicit ids.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := []string{
		`CREATE TABLE daily_reflection (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			date datetime NOT NULL,
			time_slot text NOT NULL,
			understanding_score integer NOT NULL DEFAULT 0,
			concentration_score integer NOT NULL DEFAULT 0,
			achievement_score integer NOT NULL DEFAULT 0,
			overall_score real NOT NULL DEFAULT 0,
			condition text NOT NULL DEFAULT 'normal',
			achievements text,
			difficulties text,
			tomorrow_goals text,
			github_commits integer NOT NULL DEFAULT 0,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`,
		`CREATE TABLE github_activity (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			date datetime NOT NULL,
			commit_count integer NOT NULL DEFAULT 0,
			repository_count integer NOT NULL DEFAULT 0,
			languages text,
			activity_level integer NOT NULL DEFAULT 0,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func repoTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testDate(daysAgo int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -daysAgo)
}

func seedReflection(t *testing.T, db *gorm.DB, userID uuid.UUID, daysAgo int, score float64) {
	t.Helper()
	row := &types.Reflection{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         testDate(daysAgo),
		TimeSlot:     types.TimeSlotMorning,
		OverallScore: score,
		Condition:    types.ConditionNormal,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("seed reflection: %v", err)
	}
}

func TestReflectionGetByUserAndDateRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewReflectionRepo(db, repoTestLogger(t))

	seedReflection(t, db, testUserID, 10, 5)
	seedReflection(t, db, testUserID, 5, 6)
	seedReflection(t, db, testUserID, 1, 7)
	seedReflection(t, db, uuid.New(), 1, 9)

	start := testDate(7)
	end := time.Now().UTC()
	results, err := repo.GetByUserAndDateRange(context.Background(), nil, testUserID, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d rows, want 2 inside the window", len(results))
	}
	if !results[0].Date.Before(results[1].Date) {
		t.Fatalf("rows not in chronological order: %v then %v", results[0].Date, results[1].Date)
	}
	if results[0].OverallScore != 6 || results[1].OverallScore != 7 {
		t.Fatalf("wrong rows selected: %v, %v", results[0].OverallScore, results[1].OverallScore)
	}
}

func TestReflectionGetByUserAndDateRangeNilUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewReflectionRepo(db, repoTestLogger(t))
	seedReflection(t, db, testUserID, 1, 7)

	results, err := repo.GetByUserAndDateRange(context.Background(), nil, uuid.Nil, testDate(7), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("nil user returned %d rows, want 0", len(results))
	}
}

func TestReflectionGetRecentByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewReflectionRepo(db, repoTestLogger(t))

	for i := 1; i <= 5; i++ {
		seedReflection(t, db, testUserID, i, float64(i))
	}

	results, err := repo.GetRecentByUser(context.Background(), nil, testUserID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d rows, want 3", len(results))
	}
	// The three most recent days, returned oldest first.
	if results[0].OverallScore != 3 || results[2].OverallScore != 1 {
		t.Fatalf("wrong slice or order: first=%v last=%v", results[0].OverallScore, results[2].OverallScore)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Date.Before(results[i-1].Date) {
			t.Fatalf("rows not chronological at %d", i)
		}
	}
}

func TestReflectionGetRecentByUserZeroLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewReflectionRepo(db, repoTestLogger(t))
	seedReflection(t, db, testUserID, 1, 7)

	results, err := repo.GetRecentByUser(context.Background(), nil, testUserID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("limit 0 returned %d rows, want 0", len(results))
	}
}
