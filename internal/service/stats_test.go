package service

import (
	"math"
	"testing"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

func TestAggregate_NumericFieldStats(t *testing.T) {
	samples := []models.SensorSample{
		{Temperature: fptr(10)},
		{Temperature: fptr(20)},
		{Temperature: fptr(30)},
	}
	stats := Aggregate(samples, 7)

	if stats.SampleCount != 3 || stats.WindowDays != 7 {
		t.Fatalf("bad window metadata: %+v", stats)
	}
	temp, ok := stats.Numeric["temperature"]
	if !ok {
		t.Fatalf("temperature stats missing: %+v", stats.Numeric)
	}
	if temp.Min != 10 || temp.Max != 30 || temp.Avg != 20 || temp.Count != 3 {
		t.Fatalf("unexpected temperature stats: %+v", temp)
	}
	// Population stddev of {10,20,30} is sqrt(200/3).
	want := math.Sqrt(200.0 / 3.0)
	if math.Abs(temp.StdDev-want) > 1e-9 {
		t.Fatalf("stddev=%v, want %v", temp.StdDev, want)
	}
}

func TestAggregate_AbsentFieldsOmitted(t *testing.T) {
	samples := []models.SensorSample{
		{Temperature: fptr(21)},
		{Temperature: fptr(22)},
	}
	stats := Aggregate(samples, 7)
	if _, ok := stats.Numeric["humidity"]; ok {
		t.Fatalf("humidity should be omitted when never reported")
	}
	if _, ok := stats.Booleans["window_open"]; ok {
		t.Fatalf("window_open should be omitted when never reported")
	}
}

func TestAggregate_PartialPresenceCountsOnlyReportedSamples(t *testing.T) {
	samples := []models.SensorSample{
		{LightLevel: fptr(100)},
		{}, // no light reading
		{LightLevel: fptr(300)},
	}
	stats := Aggregate(samples, 30)
	light := stats.Numeric["light_level"]
	if light.Count != 2 || light.Avg != 200 {
		t.Fatalf("expected count=2 avg=200, got %+v", light)
	}
}

func TestAggregate_BooleanStats(t *testing.T) {
	samples := []models.SensorSample{
		{WindowOpen: bptr(true)},
		{WindowOpen: bptr(true)},
		{WindowOpen: bptr(false)},
		{WindowOpen: bptr(false)},
	}
	stats := Aggregate(samples, 7)
	open := stats.Booleans["window_open"]
	if open.TrueCount != 2 || open.FalseCount != 2 || open.PercentTrue != 50 {
		t.Fatalf("unexpected window_open stats: %+v", open)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	stats := Aggregate(nil, 7)
	if stats.SampleCount != 0 || len(stats.Numeric) != 0 || len(stats.Booleans) != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

// ---- Recommendations ----

func TestRecommend_EmptyWindowYieldsSingleInfo(t *testing.T) {
	recs := Recommend(nil)
	if len(recs) != 1 || recs[0].Type != models.RecommendationInfo {
		t.Fatalf("expected single info recommendation, got %+v", recs)
	}
}

func TestRecommend_QuietWindowYieldsGeneral(t *testing.T) {
	samples := []models.SensorSample{
		{WindowOpen: bptr(false), PanelAngle: fptr(90)},
		{WindowOpen: bptr(false), PanelAngle: fptr(90)},
	}
	recs := Recommend(samples)
	if len(recs) != 1 || recs[0].Type != models.RecommendationGeneral {
		t.Fatalf("expected single general recommendation, got %+v", recs)
	}
}

func TestRecommend_FrequentTogglesSuggestSchedule(t *testing.T) {
	// Newest-first window with 12 state flips: alternate every sample.
	var samples []models.SensorSample
	for i := 0; i < 13; i++ {
		samples = append(samples, models.SensorSample{WindowOpen: bptr(i%2 == 0)})
	}
	recs := Recommend(samples)
	if !hasRecommendation(recs, models.RecommendationEfficiency) {
		t.Fatalf("expected efficiency recommendation, got %+v", recs)
	}
}

func TestRecommend_StaticPanelOverLargeWindowSuggestsTracking(t *testing.T) {
	// 60 samples, panel never moves: energy recommendation fires.
	var samples []models.SensorSample
	for i := 0; i < 60; i++ {
		samples = append(samples, models.SensorSample{PanelAngle: fptr(90)})
	}
	recs := Recommend(samples)
	if !hasRecommendation(recs, models.RecommendationEnergy) {
		t.Fatalf("expected energy recommendation, got %+v", recs)
	}
}

func TestRecommend_SmallWindowDoesNotSuggestTracking(t *testing.T) {
	// Under the minimum sample count the panel rule must stay silent.
	var samples []models.SensorSample
	for i := 0; i < 50; i++ {
		samples = append(samples, models.SensorSample{PanelAngle: fptr(90)})
	}
	recs := Recommend(samples)
	if hasRecommendation(recs, models.RecommendationEnergy) {
		t.Fatalf("energy recommendation fired below sample minimum: %+v", recs)
	}
}

func TestRecommend_UnsafeReadingsSuggestSafetyReview(t *testing.T) {
	samples := []models.SensorSample{
		{RainDetected: bptr(true)},
		{SmokeDetected: bptr(true)},
		{RainDetected: bptr(false)},
	}
	recs := Recommend(samples)
	if !hasRecommendation(recs, models.RecommendationSafety) {
		t.Fatalf("expected safety recommendation, got %+v", recs)
	}
}

func TestCountWindowToggles_SkipsSamplesWithoutState(t *testing.T) {
	chrono := []models.SensorSample{
		{WindowOpen: bptr(false)},
		{}, // gap must not break the transition chain
		{WindowOpen: bptr(true)},
		{WindowOpen: bptr(true)},
		{WindowOpen: bptr(false)},
	}
	if got := countWindowToggles(chrono); got != 2 {
		t.Fatalf("expected 2 toggles, got %d", got)
	}
}

func TestCountAngleChanges_ThresholdOnDelta(t *testing.T) {
	chrono := []models.SensorSample{
		{PanelAngle: fptr(90)},
		{PanelAngle: fptr(95)},  // +5, under threshold
		{PanelAngle: fptr(120)}, // +25, counts
		{PanelAngle: fptr(110)}, // -10, exactly threshold: not counted
	}
	if got := countAngleChanges(chrono); got != 1 {
		t.Fatalf("expected 1 angle change, got %d", got)
	}
}

func TestReverseSamples_DoesNotMutateInput(t *testing.T) {
	in := []models.SensorSample{
		{ID: "a", Timestamp: time.Unix(3, 0)},
		{ID: "b", Timestamp: time.Unix(2, 0)},
		{ID: "c", Timestamp: time.Unix(1, 0)},
	}
	out := reverseSamples(in)
	if out[0].ID != "c" || out[2].ID != "a" {
		t.Fatalf("not reversed: %+v", out)
	}
	if in[0].ID != "a" {
		t.Fatalf("input mutated: %+v", in)
	}
}

func hasRecommendation(recs []models.Recommendation, typ string) bool {
	for _, r := range recs {
		if r.Type == typ {
			return true
		}
	}
	return false
}
