package service

import (
	"sort"
	"strings"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

// Event reasons attached to planned operations.
const (
	ReasonUserSchedule = "user_schedule"
	ReasonRainForecast = "rain_forecast"
	ReasonSunPosition  = "sun_position"
	ReasonDailyRoutine = "daily_routine"
)

// ScheduleEvents is the outcome of matching schedules against a date.
type ScheduleEvents struct {
	WindowOperations []models.WindowOperation
	PanelAngles      []models.PanelAngleEvent
}

// MatchSchedules determines which schedules apply on the given date and
// what each prescribes. Only enabled schedules whose day set contains
// the date's weekday match. Matches are emitted ordered by start time;
// overlapping schedules are not merged or conflict-checked, so a caller
// applying events sequentially gets last-writer-wins.
//
// Only window and panel actions produce events here; toggle actions are
// dispatched by the schedule runner, not planned ahead.
func MatchSchedules(date time.Time, schedules []models.Schedule) ScheduleEvents {
	day := weekdayName(date)

	var out ScheduleEvents
	for _, s := range schedules {
		if !s.Enabled || !containsDay(s.Days, day) {
			continue
		}
		switch s.Action {
		case models.ActionOpenWindow, models.ActionCloseWindow:
			out.WindowOperations = append(out.WindowOperations, models.WindowOperation{
				Time:   s.StartTime,
				Action: s.Action,
				Reason: ReasonUserSchedule,
			})
		case models.ActionSetAngle:
			if s.Parameters.Angle == nil {
				continue // precondition violation; validation rejects these on write
			}
			out.PanelAngles = append(out.PanelAngles, models.PanelAngleEvent{
				Time:   s.StartTime,
				Angle:  *s.Parameters.Angle,
				Reason: ReasonUserSchedule,
			})
		}
	}

	sort.SliceStable(out.WindowOperations, func(i, j int) bool {
		return out.WindowOperations[i].Time < out.WindowOperations[j].Time
	})
	sort.SliceStable(out.PanelAngles, func(i, j int) bool {
		return out.PanelAngles[i].Time < out.PanelAngles[j].Time
	})
	return out
}

// weekdayName returns the lowercase English weekday for a date.
func weekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// validWeekdays is the complete allowed day set for schedules.
var validWeekdays = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

// validClock reports whether s is a 24-hour "HH:MM" time.
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
