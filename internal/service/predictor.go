package service

import (
	"fmt"
	"sort"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

// ----------- Fallback prediction constants -----------
const (
	// Hourly weather thresholds
	rainProbabilityThreshold = 50.0 // % above which the hour gets a close event
	uvTrackingThreshold      = 5.0  // UV index above which the panel tracks the sun

	// Time-of-day panel positions (degrees): face east before mid-morning,
	// straight up through midday, face west in the late afternoon.
	morningCutoffHour   = 10
	afternoonCutoffHour = 16
	angleFaceEast       = 45.0
	angleFaceUp         = 90.0
	angleFaceWest       = 135.0

	// Defaults when no forecast is available
	defaultOpenTime  = "08:00"
	defaultCloseTime = "19:00"

	// Energy estimate: kWh per point of daily max UV index, and the
	// constant used when no forecast is present.
	energyPerUVPoint      = 0.5
	defaultEnergyEstimate = 2.5
)

// PredictFallback synthesizes a day plan without the external prediction
// service. It is a deterministic, pure function of its inputs: no I/O,
// no randomness, no clock reads beyond the requested date.
//
// User schedules seed the plan; hourly weather adds rain closes and
// sun-tracking angles; with no forecast at all a fixed daily routine is
// emitted. Confidence is always low and the method is always fallback.
func PredictFallback(req models.PredictionRequest) models.PredictionResult {
	events := MatchSchedules(req.Date, req.UserSchedules)

	res := models.PredictionResult{
		WindowOperations:         events.WindowOperations,
		PanelAngles:              events.PanelAngles,
		EnergyProductionEstimate: defaultEnergyEstimate,
		Confidence:               models.ConfidenceLow,
		Method:                   models.MethodFallback,
	}

	if req.WeatherData != nil && len(req.WeatherData.Hourly) > 0 {
		applyHourlyForecast(&res, req.WeatherData.Hourly)
	} else {
		applyDailyRoutine(&res)
	}

	if req.WeatherData != nil && req.WeatherData.Daily != nil {
		res.EnergyProductionEstimate = req.WeatherData.Daily.UVIndexMax * energyPerUVPoint
	}

	sortPlan(&res)
	return res
}

// applyHourlyForecast appends weather-driven events per forecast hour.
func applyHourlyForecast(res *models.PredictionResult, hourly []models.HourlyWeather) {
	for _, h := range hourly {
		at := clockForHour(h.Hour)
		if h.PrecipitationProbability > rainProbabilityThreshold {
			res.WindowOperations = append(res.WindowOperations, models.WindowOperation{
				Time:   at,
				Action: models.ActionCloseWindow,
				Reason: ReasonRainForecast,
			})
		}
		if h.UVIndex > uvTrackingThreshold {
			res.PanelAngles = append(res.PanelAngles, models.PanelAngleEvent{
				Time:   at,
				Angle:  sunAngleForHour(h.Hour),
				Reason: ReasonSunPosition,
			})
		}
	}
}

// applyDailyRoutine emits the fixed open/close pair and the three-step
// panel sweep used when no forecast is available.
func applyDailyRoutine(res *models.PredictionResult) {
	res.WindowOperations = append(res.WindowOperations,
		models.WindowOperation{Time: defaultOpenTime, Action: models.ActionOpenWindow, Reason: ReasonDailyRoutine},
		models.WindowOperation{Time: defaultCloseTime, Action: models.ActionCloseWindow, Reason: ReasonDailyRoutine},
	)
	res.PanelAngles = append(res.PanelAngles,
		models.PanelAngleEvent{Time: "08:00", Angle: angleFaceEast, Reason: ReasonSunPosition},
		models.PanelAngleEvent{Time: "12:00", Angle: angleFaceUp, Reason: ReasonSunPosition},
		models.PanelAngleEvent{Time: "16:00", Angle: angleFaceWest, Reason: ReasonSunPosition},
	)
}

// sunAngleForHour maps an hour of day to a panel position.
func sunAngleForHour(hour int) float64 {
	switch {
	case hour < morningCutoffHour:
		return angleFaceEast
	case hour > afternoonCutoffHour:
		return angleFaceWest
	default:
		return angleFaceUp
	}
}

func clockForHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// sortPlan orders both event sequences by time so callers can apply
// them front to back.
func sortPlan(res *models.PredictionResult) {
	sort.SliceStable(res.WindowOperations, func(i, j int) bool {
		return res.WindowOperations[i].Time < res.WindowOperations[j].Time
	})
	sort.SliceStable(res.PanelAngles, func(i, j int) bool {
		return res.PanelAngles[i].Time < res.PanelAngles[j].Time
	})
}
