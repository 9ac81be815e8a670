package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/service"
)

const (
	errIngestTelemetry = "failed to record telemetry"
	errLoadTelemetry   = "failed to load telemetry history"
	errLoadAlerts      = "failed to load alerts"

	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// Request DTO for telemetry ingestion. All measurements optional.
type telemetryRequest struct {
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	LightLevel    *float64   `json:"light_level,omitempty"`
	PanelAngle    *float64   `json:"panel_angle,omitempty"`
	WindowOpen    *bool      `json:"window_open,omitempty"`
	RainDetected  *bool      `json:"rain_detected,omitempty"`
	SmokeDetected *bool      `json:"smoke_detected,omitempty"`
	Temperature   *float64   `json:"temperature,omitempty"`
	Humidity      *float64   `json:"humidity,omitempty"`
}

// @Summary      Ingest telemetry
// @Description  Records a sensor sample and runs the safety classifier; returns the alert when one fires.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body  telemetryRequest  true  "Sensor sample"
// @Success      200   {object}  map[string]interface{}  "status, alert?"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/devices/{id}/telemetry [post]
// @Security     BearerAuth
func (h *Handler) ingestTelemetry(c *gin.Context) {
	var req telemetryRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	sample := models.SensorSample{
		LightLevel:    req.LightLevel,
		PanelAngle:    req.PanelAngle,
		WindowOpen:    req.WindowOpen,
		RainDetected:  req.RainDetected,
		SmokeDetected: req.SmokeDetected,
		Temperature:   req.Temperature,
		Humidity:      req.Humidity,
	}
	if req.Timestamp != nil {
		sample.Timestamp = *req.Timestamp
	}

	alert, err := h.services.Telemetry.Ingest(c.Request.Context(), c.Param("id"), sample)
	if err != nil {
		h.respondServiceError(c, err, errIngestTelemetry, "telemetry_ingest_failed", "device_id", c.Param("id"))
		return
	}
	resp := gin.H{"status": "recorded"}
	if alert != nil {
		resp["alert"] = alert
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Telemetry history
// @Description  Samples ordered newest first. Date-only 'to' is treated as end-of-day inclusive.
// @Tags         telemetry
// @Produce      json
// @Param        from   query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        to     query  string  false  "End of range"
// @Param        limit  query  int     false  "Max samples (default and cap 1000)"
// @Success      200  {object}  map[string]interface{}  "count, samples"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id}/telemetry [get]
// @Security     BearerAuth
func (h *Handler) getTelemetry(c *gin.Context) {
	f, ok := h.parseRange(c)
	if !ok {
		return
	}
	if qs := c.Query("limit"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil && v > 0 {
			f.Limit = v
		}
	}

	samples, err := h.services.Telemetry.History(c.Request.Context(), userID(c), c.Param("id"), f)
	if err != nil {
		h.respondServiceError(c, err, errLoadTelemetry, "telemetry_history_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(samples),
		"samples": samples,
	})
}

// @Summary      Alert history
// @Tags         telemetry
// @Produce      json
// @Param        from  query  string  false  "Start of range"
// @Param        to    query  string  false  "End of range"
// @Param        kind  query  string  false  "Alert kind"  Enums(rain,smoke,system_failure)
// @Success      200  {object}  map[string]interface{}  "count, alerts"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id}/alerts [get]
// @Security     BearerAuth
func (h *Handler) getAlerts(c *gin.Context) {
	f, ok := h.parseRange(c)
	if !ok {
		return
	}
	alerts, err := h.services.Telemetry.Alerts(c.Request.Context(), userID(c), c.Param("id"), service.AlertFilter{
		From: f.From,
		To:   f.To,
		Kind: strings.ToLower(strings.TrimSpace(c.Query("kind"))),
	})
	if err != nil {
		h.respondServiceError(c, err, errLoadAlerts, "alerts_list_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// parseRange reads optional from/to query times. Writes a 400 and
// returns ok=false on malformed input.
func (h *Handler) parseRange(c *gin.Context) (service.HistoryFilter, bool) {
	var f service.HistoryFilter

	if qs := c.Query("from"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return f, false
		}
		f.From = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return f, false
		}
		// If the user didn't include a time component, treat "to" as the end of that day.
		if isDateOnly(qs) {
			t = t.Add(24*time.Hour - time.Nanosecond).UTC()
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return f, false
	}
	return f, true
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
