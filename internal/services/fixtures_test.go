package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

var testUserID = uuid.MustParse("5f0c4aa8-7f3a-4a1b-93a0-1f2e3d4c5b6a")

// daysAgo returns a UTC day-truncated date n days before today, matching the
// window math in analysisWindow.
func daysAgo(n int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -n)
}

func reflection(daysBack int, slot types.TimeSlot, score float64, condition types.Condition) *types.Reflection {
	return &types.Reflection{
		ID:           uuid.New(),
		UserID:       testUserID,
		Date:         daysAgo(daysBack),
		TimeSlot:     slot,
		OverallScore: score,
		Condition:    condition,
	}
}

func activity(daysBack, commits int) *types.GithubActivity {
	return &types.GithubActivity{
		ID:          uuid.New(),
		UserID:      testUserID,
		Date:        daysAgo(daysBack),
		CommitCount: commits,
	}
}

type fakeReflectionRepo struct {
	reflections []*types.Reflection
	err         error
}

func (f *fakeReflectionRepo) GetByUserAndDateRange(_ context.Context, _ *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.Reflection, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*types.Reflection, 0, len(f.reflections))
	for _, r := range f.reflections {
		if r.UserID == userID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	sortReflectionsByDate(out)
	return out, nil
}

func (f *fakeReflectionRepo) GetRecentByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*types.Reflection, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*types.Reflection, 0, len(f.reflections))
	for _, r := range f.reflections {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortReflectionsByDate(out)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func sortReflectionsByDate(rs []*types.Reflection) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j].Date.Before(rs[j-1].Date); j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}

type fakeActivityRepo struct {
	activities []*types.GithubActivity
	err        error
}

func (f *fakeActivityRepo) GetByUserAndDateRange(_ context.Context, _ *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.GithubActivity, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*types.GithubActivity, 0, len(f.activities))
	for _, a := range f.activities {
		if a.UserID == userID && !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) GetRecentByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*types.GithubActivity, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*types.GithubActivity, 0, len(f.activities))
	for _, a := range f.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
