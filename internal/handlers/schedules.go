package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

const (
	errCreateSchedule = "failed to create schedule"
	errListSchedules  = "failed to list schedules"
	errUpdateSchedule = "failed to update schedule"
	errDeleteSchedule = "failed to delete schedule"
)

// Request DTO for creating/updating schedules.
type scheduleRequest struct {
	DeviceID  string   `json:"device_id"`
	Days      []string `json:"days" binding:"required"`
	StartTime string   `json:"start_time" binding:"required"` // "HH:MM"
	EndTime   string   `json:"end_time,omitempty"`
	Action    string   `json:"action" binding:"required"`
	Angle     *float64 `json:"angle,omitempty"` // required for set_angle
	Enabled   bool     `json:"enabled"`
}

func (r scheduleRequest) toModel() models.Schedule {
	return models.Schedule{
		DeviceID:   r.DeviceID,
		Days:       r.Days,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Action:     r.Action,
		Parameters: models.ScheduleParams{Angle: r.Angle},
		Enabled:    r.Enabled,
	}
}

// @Summary      Create schedule
// @Description  days are lowercase weekday names; times are 24-hour HH:MM
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        body  body  scheduleRequest  true  "Schedule payload"
// @Success      200   {object}  models.Schedule
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/schedules [post]
// @Security     BearerAuth
func (h *Handler) createSchedule(c *gin.Context) {
	var req scheduleRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	created, err := h.services.Schedules.Create(c.Request.Context(), userID(c), req.toModel())
	if err != nil {
		h.respondServiceError(c, err, errCreateSchedule, "schedule_create_failed", "device_id", req.DeviceID)
		return
	}
	c.JSON(http.StatusOK, created)
}

// @Summary      List schedules for a device
// @Tags         schedules
// @Produce      json
// @Param        device_id  query  string  true  "Device id"
// @Success      200  {object}  map[string]interface{}  "count, schedules"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/schedules [get]
// @Security     BearerAuth
func (h *Handler) listSchedules(c *gin.Context) {
	deviceID := c.Query("device_id")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id query parameter is required"})
		return
	}
	schedules, err := h.services.Schedules.List(c.Request.Context(), userID(c), deviceID)
	if err != nil {
		h.respondServiceError(c, err, errListSchedules, "schedule_list_failed", "device_id", deviceID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(schedules),
		"schedules": schedules,
	})
}

// @Summary      Update schedule
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        body  body  scheduleRequest  true  "Schedule payload"
// @Success      200   {object}  models.Schedule
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/schedules/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateSchedule(c *gin.Context) {
	var req scheduleRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	in := req.toModel()
	in.ID = c.Param("id")
	updated, err := h.services.Schedules.Update(c.Request.Context(), userID(c), in)
	if err != nil {
		h.respondServiceError(c, err, errUpdateSchedule, "schedule_update_failed", "schedule_id", in.ID)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete schedule
// @Tags         schedules
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/schedules/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteSchedule(c *gin.Context) {
	if err := h.services.Schedules.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.respondServiceError(c, err, errDeleteSchedule, "schedule_delete_failed", "schedule_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
