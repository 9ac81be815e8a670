package service

import (
	"fmt"
	"math"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

// FieldStats summarizes one numeric telemetry field over a window.
// StdDev is the population standard deviation.
type FieldStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// BoolStats summarizes one boolean telemetry field over a window.
type BoolStats struct {
	TrueCount   int     `json:"true_count"`
	FalseCount  int     `json:"false_count"`
	PercentTrue float64 `json:"percent_true"`
}

// UsageStats is the aggregation output for a device window.
type UsageStats struct {
	SampleCount int                   `json:"sample_count"`
	WindowDays  int                   `json:"window_days"`
	Numeric     map[string]FieldStats `json:"numeric"`
	Booleans    map[string]BoolStats  `json:"booleans"`
}

// numericFields maps field names to accessors; a field contributes to
// its stats only for samples where it is present.
var numericFields = map[string]func(models.SensorSample) *float64{
	"light_level": func(s models.SensorSample) *float64 { return s.LightLevel },
	"panel_angle": func(s models.SensorSample) *float64 { return s.PanelAngle },
	"temperature": func(s models.SensorSample) *float64 { return s.Temperature },
	"humidity":    func(s models.SensorSample) *float64 { return s.Humidity },
}

var booleanFields = map[string]func(models.SensorSample) *bool{
	"window_open":    func(s models.SensorSample) *bool { return s.WindowOpen },
	"rain_detected":  func(s models.SensorSample) *bool { return s.RainDetected },
	"smoke_detected": func(s models.SensorSample) *bool { return s.SmokeDetected },
}

// Aggregate reduces a sample sequence into per-field statistics.
// Fields absent from every sample are omitted from the result maps.
func Aggregate(samples []models.SensorSample, windowDays int) UsageStats {
	out := UsageStats{
		SampleCount: len(samples),
		WindowDays:  windowDays,
		Numeric:     make(map[string]FieldStats, len(numericFields)),
		Booleans:    make(map[string]BoolStats, len(booleanFields)),
	}

	for name, get := range numericFields {
		var values []float64
		for _, s := range samples {
			if v := get(s); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) == 0 {
			continue
		}
		out.Numeric[name] = summarize(values)
	}

	for name, get := range booleanFields {
		var st BoolStats
		for _, s := range samples {
			v := get(s)
			if v == nil {
				continue
			}
			if *v {
				st.TrueCount++
			} else {
				st.FalseCount++
			}
		}
		total := st.TrueCount + st.FalseCount
		if total == 0 {
			continue
		}
		st.PercentTrue = float64(st.TrueCount) / float64(total) * 100
		out.Booleans[name] = st
	}

	return out
}

func summarize(values []float64) FieldStats {
	st := FieldStats{Min: values[0], Max: values[0], Count: len(values)}
	var sum float64
	for _, v := range values {
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
		sum += v
	}
	st.Avg = sum / float64(len(values))

	var sqDiff float64
	for _, v := range values {
		d := v - st.Avg
		sqDiff += d * d
	}
	st.StdDev = math.Sqrt(sqDiff / float64(len(values)))
	return st
}

// ----------- Recommendation rules -----------
const (
	toggleRecommendThreshold  = 10 // window open/close flips before suggesting a schedule
	angleChangeMinDelta       = 10.0
	angleChangeQuietThreshold = 3  // fewer changes than this with a busy window suggests tracking is off
	angleChangeMinSamples     = 50
)

// Recommend evaluates threshold rules over a sample window and emits
// every matching recommendation. Samples are expected newest first, as
// returned by the sensor store; order only matters for transition
// counting, which is done chronologically.
func Recommend(samples []models.SensorSample) []models.Recommendation {
	if len(samples) == 0 {
		return []models.Recommendation{{
			Type:    models.RecommendationInfo,
			Message: "Not enough usage data yet. Keep using your smart window to receive personalized recommendations.",
		}}
	}

	chrono := reverseSamples(samples)
	var out []models.Recommendation

	if toggles := countWindowToggles(chrono); toggles > toggleRecommendThreshold {
		out = append(out, models.Recommendation{
			Type: models.RecommendationEfficiency,
			Message: fmt.Sprintf("Your window changed state %d times in this period. "+
				"Setting up a schedule could automate the routine for you.", toggles),
		})
	}

	if changes := countAngleChanges(chrono); changes < angleChangeQuietThreshold && len(samples) > angleChangeMinSamples {
		out = append(out, models.Recommendation{
			Type: models.RecommendationEnergy,
			Message: "Your panel angle rarely changes. Enabling automatic sun tracking " +
				"could increase energy production.",
		})
	}

	if unsafe := countUnsafeSamples(chrono); unsafe > 0 {
		out = append(out, models.Recommendation{
			Type:    models.RecommendationSafety,
			Message: fmt.Sprintf("%d readings reported rain or smoke in this period. Review the alert history for details.", unsafe),
		})
	}

	if len(out) == 0 {
		out = append(out, models.Recommendation{
			Type:    models.RecommendationGeneral,
			Message: "Everything looks good. Your smart window is operating normally.",
		})
	}
	return out
}

// countWindowToggles counts open→close and close→open transitions over
// consecutive samples that report window state.
func countWindowToggles(chrono []models.SensorSample) int {
	var (
		count int
		prev  *bool
	)
	for _, s := range chrono {
		if s.WindowOpen == nil {
			continue
		}
		if prev != nil && *prev != *s.WindowOpen {
			count++
		}
		prev = s.WindowOpen
	}
	return count
}

// countAngleChanges counts panel moves larger than angleChangeMinDelta
// degrees between consecutive samples that report an angle.
func countAngleChanges(chrono []models.SensorSample) int {
	var (
		count int
		prev  *float64
	)
	for _, s := range chrono {
		if s.PanelAngle == nil {
			continue
		}
		if prev != nil && math.Abs(*s.PanelAngle-*prev) > angleChangeMinDelta {
			count++
		}
		prev = s.PanelAngle
	}
	return count
}

func countUnsafeSamples(chrono []models.SensorSample) int {
	var count int
	for _, s := range chrono {
		rain := s.RainDetected != nil && *s.RainDetected
		smoke := s.SmokeDetected != nil && *s.SmokeDetected
		if rain || smoke {
			count++
		}
	}
	return count
}

func reverseSamples(in []models.SensorSample) []models.SensorSample {
	out := make([]models.SensorSample, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
