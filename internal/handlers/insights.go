package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

const (
	errLoadStats           = "failed to compute statistics"
	errLoadRecommendations = "failed to compute recommendations"
	errPredict             = "failed to compute prediction"
)

// Request DTO for predictions. Weather is optional; the predictor falls
// back to daily-routine defaults without it.
type predictionRequestBody struct {
	Date    string              `json:"date,omitempty"` // "YYYY-MM-DD", defaults to today
	Weather *models.WeatherData `json:"weather_data,omitempty"`
}

// @Summary      Usage statistics
// @Tags         insights
// @Produce      json
// @Param        days  query  int  false  "Aggregation window, 7 or 30 (default 7)"
// @Success      200  {object}  service.UsageStats
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id}/stats [get]
// @Security     BearerAuth
func (h *Handler) getStats(c *gin.Context) {
	days := 0
	if qs := c.Query("days"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil {
			days = v
		}
	}
	stats, err := h.services.Insights.Stats(c.Request.Context(), userID(c), c.Param("id"), days)
	if err != nil {
		h.respondServiceError(c, err, errLoadStats, "stats_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Usage recommendations
// @Tags         insights
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, recommendations"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id}/recommendations [get]
// @Security     BearerAuth
func (h *Handler) getRecommendations(c *gin.Context) {
	recs, err := h.services.Insights.Recommendations(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err, errLoadRecommendations, "recommendations_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":           len(recs),
		"recommendations": recs,
	})
}

// @Summary      Daily prediction
// @Description  Asks the external predictor when configured, falling back to schedule and weather rules.
// @Tags         insights
// @Accept       json
// @Produce      json
// @Param        body  body  predictionRequestBody  false  "Prediction input"
// @Success      200   {object}  models.PredictionResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/devices/{id}/predictions [post]
// @Security     BearerAuth
func (h *Handler) predict(c *gin.Context) {
	var req predictionRequestBody
	// Empty body is fine, predictions default to today with no weather.
	if c.Request.ContentLength > 0 {
		if ok := h.bindJSONOrBadRequest(c, &req); !ok {
			return
		}
	}

	date := time.Now().UTC()
	if req.Date != "" {
		t, err := time.Parse(layoutDate, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'date'; use YYYY-MM-DD"})
			return
		}
		date = t
	}

	result, err := h.services.Predictions.Predict(c.Request.Context(), userID(c), c.Param("id"), date, req.Weather)
	if err != nil {
		h.respondServiceError(c, err, errPredict, "prediction_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, result)
}
