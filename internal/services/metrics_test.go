package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lgdx/analytics-backend/internal/types"
)

func newTestMetricsService(t *testing.T, refl *fakeReflectionRepo, act *fakeActivityRepo) MetricsService {
	t.Helper()
	return NewMetricsService(nil, testLogger(t), refl, act, DefaultTuning())
}

func TestGetLearningMetricsEmptyWindow(t *testing.T) {
	svc := newTestMetricsService(t, &fakeReflectionRepo{}, &fakeActivityRepo{})

	got, err := svc.GetLearningMetrics(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (types.LearningMetrics{}) {
		t.Fatalf("empty window metrics=%+v, want zero value", got)
	}
}

func TestGetLearningMetricsStoreFailureDegrades(t *testing.T) {
	svc := newTestMetricsService(t,
		&fakeReflectionRepo{err: errors.New("connection refused")},
		&fakeActivityRepo{err: errors.New("connection refused")})

	got, err := svc.GetLearningMetrics(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("store failure must degrade, got error: %v", err)
	}
	if got.TotalReflections != 0 {
		t.Fatalf("TotalReflections=%d, want 0", got.TotalReflections)
	}
}

func TestGetLearningMetricsFlatHistory(t *testing.T) {
	refl := &fakeReflectionRepo{reflections: []*types.Reflection{
		reflection(3, types.TimeSlotMorning, 8, types.ConditionGood),
		reflection(2, types.TimeSlotMorning, 8, types.ConditionGood),
		reflection(1, types.TimeSlotMorning, 8, types.ConditionGood),
	}}
	svc := newTestMetricsService(t, refl, &fakeActivityRepo{})

	got, err := svc.GetLearningMetrics(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalReflections != 3 {
		t.Fatalf("TotalReflections=%d, want 3", got.TotalReflections)
	}
	if !almostEqual(got.AverageScore, 8) {
		t.Fatalf("AverageScore=%v, want 8", got.AverageScore)
	}
	if !almostEqual(got.AverageCondition, 4) {
		t.Fatalf("AverageCondition=%v, want 4", got.AverageCondition)
	}
	if !almostEqual(got.ConsistencyScore, 100) {
		t.Fatalf("ConsistencyScore=%v, want 100 for flat history", got.ConsistencyScore)
	}
	if !almostEqual(got.ImprovementRate, 0) {
		t.Fatalf("ImprovementRate=%v, want 0 for flat history", got.ImprovementRate)
	}
}

func TestGetLearningMetricsProductivityScore(t *testing.T) {
	// Flat 8s and 10 commits: 0.6*80 + 0.2*100 + 20*min(10/10,1) = 88.
	refl := &fakeReflectionRepo{reflections: []*types.Reflection{
		reflection(2, types.TimeSlotMorning, 8, types.ConditionGood),
		reflection(1, types.TimeSlotMorning, 8, types.ConditionGood),
	}}
	act := &fakeActivityRepo{activities: []*types.GithubActivity{
		activity(2, 6),
		activity(1, 4),
	}}
	svc := newTestMetricsService(t, refl, act)

	got, err := svc.GetLearningMetrics(context.Background(), testUserID, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GithubActivity != 10 {
		t.Fatalf("GithubActivity=%d, want 10", got.GithubActivity)
	}
	if !almostEqual(got.ProductivityScore, 88) {
		t.Fatalf("ProductivityScore=%v, want 88", got.ProductivityScore)
	}
}

func TestImprovementRate(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{name: "empty", scores: nil, want: 0},
		{
			name:   "decline_from_8_to_6",
			scores: []float64{8, 8, 8, 8, 8, 8, 8, 6, 6, 6, 6, 6, 6, 6},
			want:   -25,
		},
		{
			name:   "short_series_compares_with_itself",
			scores: []float64{5, 5, 5},
			want:   0,
		},
		{
			name:   "zero_first_week_floors_divisor",
			scores: []float64{0, 0, 0, 0, 0, 0, 0, 2, 2, 2, 2, 2, 2, 2},
			want:   200,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := improvementRate(tc.scores)
			if !almostEqual(got, tc.want) {
				t.Fatalf("improvementRate=%v, want %v", got, tc.want)
			}
		})
	}
}
