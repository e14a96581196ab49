package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/types"
)

func seedActivity(t *testing.T, db *gorm.DB, userID uuid.UUID, daysAgo, commits int) {
	t.Helper()
	row := &types.GithubActivity{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        testDate(daysAgo),
		CommitCount: commits,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
}

func TestActivityGetByUserAndDateRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepo(db, repoTestLogger(t))

	seedActivity(t, db, testUserID, 20, 1)
	seedActivity(t, db, testUserID, 3, 5)
	seedActivity(t, db, testUserID, 1, 2)
	seedActivity(t, db, uuid.New(), 1, 9)

	results, err := repo.GetByUserAndDateRange(context.Background(), nil, testUserID, testDate(7), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d rows, want 2 inside the window", len(results))
	}
	if results[0].CommitCount != 5 || results[1].CommitCount != 2 {
		t.Fatalf("wrong rows or order: %d, %d", results[0].CommitCount, results[1].CommitCount)
	}
}

func TestActivityGetRecentByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepo(db, repoTestLogger(t))

	for i := 1; i <= 4; i++ {
		seedActivity(t, db, testUserID, i, i*10)
	}

	results, err := repo.GetRecentByUser(context.Background(), nil, testUserID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d rows, want 2", len(results))
	}
	if results[0].CommitCount != 20 || results[1].CommitCount != 10 {
		t.Fatalf("want the two newest days oldest first, got %d then %d",
			results[0].CommitCount, results[1].CommitCount)
	}
}

func TestActivityNilUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepo(db, repoTestLogger(t))
	seedActivity(t, db, testUserID, 1, 3)

	results, err := repo.GetByUserAndDateRange(context.Background(), nil, uuid.Nil, testDate(7), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("nil user returned %d rows, want 0", len(results))
	}
}
