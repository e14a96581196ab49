package services

import (
	"context"
	"testing"

	"github.com/lgdx/analytics-backend/internal/types"
)

func newTestInsightService(t *testing.T, refl *fakeReflectionRepo, act *fakeActivityRepo) InsightService {
	t.Helper()
	log := testLogger(t)
	tuning := DefaultTuning()
	metrics := NewMetricsService(nil, log, refl, act, tuning)
	timeSlots := NewTimeSlotService(nil, log, refl, tuning)
	patterns := NewPatternService(nil, log, refl, act, tuning)
	return NewInsightService(nil, log, metrics, timeSlots, patterns, tuning)
}

func insightIDs(insights []types.Insight) map[string]bool {
	ids := make(map[string]bool, len(insights))
	for _, i := range insights {
		ids[i.ID] = true
	}
	return ids
}

func TestGenerateInsightsHighPerformer(t *testing.T) {
	refl := &fakeReflectionRepo{reflections: steadyMornings(25, 9)}
	svc := newTestInsightService(t, refl, &fakeActivityRepo{})

	insights, err := svc.GenerateInsights(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := insightIDs(insights)
	for _, id := range []string{"high-performance", "high-consistency", "best-time-slot"} {
		if !ids[id] {
			t.Fatalf("expected insight %q, got %v", id, ids)
		}
	}
	if ids["low-performance"] {
		t.Fatal("high performer must not get the low performance warning")
	}
}

func TestGenerateInsightsLowActivityWarnings(t *testing.T) {
	refl := &fakeReflectionRepo{reflections: []*types.Reflection{
		reflection(1, types.TimeSlotMorning, 3, types.ConditionTired),
		reflection(2, types.TimeSlotMorning, 4, types.ConditionTired),
	}}
	svc := newTestInsightService(t, refl, &fakeActivityRepo{})

	insights, err := svc.GenerateInsights(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := insightIDs(insights)
	if !ids["low-performance"] {
		t.Fatal("expected low performance warning")
	}
	if !ids["low-activity-warning"] {
		t.Fatal("expected low activity warning for sparse window")
	}
	if !ids["increase-github-activity"] {
		t.Fatal("expected github activity recommendation")
	}
}

func TestGenerateInsightsSortedByPriority(t *testing.T) {
	refl := &fakeReflectionRepo{reflections: steadyMornings(25, 9)}
	svc := newTestInsightService(t, refl, &fakeActivityRepo{})

	insights, err := svc.GenerateInsights(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(insights); i++ {
		if insights[i].Priority.Weight() > insights[i-1].Priority.Weight() {
			t.Fatalf("insights not sorted by priority at %d", i)
		}
	}
}

func TestGetInsightsByType(t *testing.T) {
	refl := &fakeReflectionRepo{reflections: steadyMornings(25, 9)}
	svc := newTestInsightService(t, refl, &fakeActivityRepo{})

	warnings, err := svc.GetInsightsByType(context.Background(), testUserID, 30, types.InsightTypeWarning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, insight := range warnings {
		if insight.Type != types.InsightTypeWarning {
			t.Fatalf("type filter leaked %s insight %s", insight.Type, insight.ID)
		}
	}
}

func TestDramaticChangeWarning(t *testing.T) {
	metrics := types.LearningMetrics{TotalReflections: 15, ImprovementRate: 80}
	insights := warningInsights(metrics)

	var found bool
	for _, insight := range insights {
		if insight.ID == "dramatic-change-warning" {
			found = true
			if insight.Trend != types.TrendUp {
				t.Fatalf("Trend=%s, want up for positive change", insight.Trend)
			}
		}
	}
	if !found {
		t.Fatal("expected dramatic change warning for |improvement| > 50")
	}
}

func TestExtremeSlotsSkipEmpty(t *testing.T) {
	slots := []types.TimeSlotPerformance{
		{TimeSlot: types.TimeSlotMorning, AverageScore: 8, ActivityCount: 5},
		{TimeSlot: types.TimeSlotAfternoon, AverageScore: 0, ActivityCount: 0},
		{TimeSlot: types.TimeSlotEvening, AverageScore: 5, ActivityCount: 4},
	}
	best, worst := extremeSlots(slots)
	if best == nil || best.TimeSlot != types.TimeSlotMorning {
		t.Fatalf("best=%+v, want morning", best)
	}
	if worst == nil || worst.TimeSlot != types.TimeSlotEvening {
		t.Fatalf("worst=%+v, want evening (empty afternoon skipped)", worst)
	}
}
