package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lgdx/analytics-backend/internal/types"
)

func newTestDataFetchService(t *testing.T, refl *fakeReflectionRepo, act *fakeActivityRepo) DataFetchService {
	t.Helper()
	return NewDataFetchService(nil, testLogger(t), refl, act, DefaultTuning())
}

func TestGetAnalyticsDataEchoesWindow(t *testing.T) {
	refl := &fakeReflectionRepo{reflections: []*types.Reflection{
		reflection(1, types.TimeSlotMorning, 8, types.ConditionGood),
		reflection(2, types.TimeSlotEvening, 6, types.ConditionNormal),
	}}
	act := &fakeActivityRepo{activities: []*types.GithubActivity{
		activity(1, 4),
		activity(3, 0),
	}}
	svc := newTestDataFetchService(t, refl, act)

	data, err := svc.GetAnalyticsData(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Reflections) != 2 {
		t.Fatalf("Reflections=%d, want 2", len(data.Reflections))
	}
	if len(data.Activities) != 2 {
		t.Fatalf("Activities=%d, want 2", len(data.Activities))
	}
	if data.Stats.TotalReflections != 2 {
		t.Fatalf("TotalReflections=%d, want 2", data.Stats.TotalReflections)
	}
	if data.Stats.TotalCommits != 4 {
		t.Fatalf("TotalCommits=%d, want 4", data.Stats.TotalCommits)
	}
	if !almostEqual(data.Stats.AvgScore, 7) {
		t.Fatalf("AvgScore=%v, want 7", data.Stats.AvgScore)
	}
	if !almostEqual(data.Stats.AvgCondition, 3.5) {
		t.Fatalf("AvgCondition=%v, want 3.5", data.Stats.AvgCondition)
	}
}

func TestWindowStatsActiveDaysUnion(t *testing.T) {
	// Reflection days 1 and 2, commits on days 1 and 5, a zero commit day 3.
	// Day 1 overlaps, day 3 does not count, so active days are 1, 2 and 5.
	reflections := []*types.Reflection{
		reflection(1, types.TimeSlotMorning, 7, types.ConditionGood),
		reflection(2, types.TimeSlotMorning, 7, types.ConditionGood),
	}
	activities := []*types.GithubActivity{
		activity(1, 3),
		activity(3, 0),
		activity(5, 2),
	}

	stats := windowStats(reflections, activities)
	if stats.ActiveDays != 3 {
		t.Fatalf("ActiveDays=%d, want 3", stats.ActiveDays)
	}
}

func TestWindowStatsConsistencyScale(t *testing.T) {
	// Scores 6 and 8 have stdev 1, so consistency is 9 on the raw 0-10 scale.
	reflections := []*types.Reflection{
		reflection(1, types.TimeSlotMorning, 6, types.ConditionGood),
		reflection(2, types.TimeSlotMorning, 8, types.ConditionGood),
	}
	stats := windowStats(reflections, nil)
	if !almostEqual(stats.Consistency, 9) {
		t.Fatalf("Consistency=%v, want 9", stats.Consistency)
	}
}

func TestWindowStatsSinglePointSkipsConsistency(t *testing.T) {
	reflections := []*types.Reflection{
		reflection(1, types.TimeSlotMorning, 6, types.ConditionGood),
	}
	stats := windowStats(reflections, nil)
	if stats.Consistency != 0 {
		t.Fatalf("Consistency=%v, want 0 for a single sample", stats.Consistency)
	}
}

func TestWindowStatsRounding(t *testing.T) {
	reflections := []*types.Reflection{
		reflection(1, types.TimeSlotMorning, 7, types.ConditionGood),
		reflection(2, types.TimeSlotMorning, 7, types.ConditionGood),
		reflection(3, types.TimeSlotMorning, 8, types.ConditionGood),
	}
	stats := windowStats(reflections, nil)
	if !almostEqual(stats.AvgScore, 7.3) {
		t.Fatalf("AvgScore=%v, want 7.3 after rounding", stats.AvgScore)
	}
}

func TestGetAnalyticsDataDegradesOnStoreFailure(t *testing.T) {
	refl := &fakeReflectionRepo{err: errors.New("db down")}
	act := &fakeActivityRepo{err: errors.New("db down")}
	svc := newTestDataFetchService(t, refl, act)

	data, err := svc.GetAnalyticsData(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("store failure must degrade, got error: %v", err)
	}
	if len(data.Reflections) != 0 || len(data.Activities) != 0 {
		t.Fatalf("degraded window must be empty, got %d/%d", len(data.Reflections), len(data.Activities))
	}
	if data.Stats.TotalReflections != 0 {
		t.Fatalf("TotalReflections=%d, want 0", data.Stats.TotalReflections)
	}
}
