package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/service"
)

const (
	errListDevices     = "failed to list devices"
	errLoadDevice      = "failed to load device"
	errRegisterDevice  = "failed to register device"
	errDeleteDevice    = "failed to delete device"
	errDispatchCommand = "failed to dispatch command"
)

// Request DTO for device registration.
type registerDeviceRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location,omitempty"`
}

// Request DTO for direct commands.
type commandRequest struct {
	Action string   `json:"action" binding:"required"` // open_window | close_window | set_angle | toggle_tracking | toggle_auto
	Angle  *float64 `json:"angle,omitempty"`           // required when action=set_angle, 0..180
}

// @Summary      Register device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body  registerDeviceRequest  true  "Device payload"
// @Success      200   {object}  models.Device
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/devices [post]
// @Security     BearerAuth
func (h *Handler) registerDevice(c *gin.Context) {
	var req registerDeviceRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	device, err := h.services.Devices.Register(c.Request.Context(), userID(c), service.DeviceParams{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
	})
	if err != nil {
		h.respondServiceError(c, err, errRegisterDevice, "device_register_failed")
		return
	}
	c.JSON(http.StatusOK, device)
}

// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, devices"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	devices, err := h.services.Devices.List(c.Request.Context(), userID(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListDevices, "device_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(devices),
		"devices": devices,
	})
}

// @Summary      Get device with latest state
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "device, latest_sample"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id} [get]
// @Security     BearerAuth
func (h *Handler) getDevice(c *gin.Context) {
	device, latest, err := h.services.Devices.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err, errLoadDevice, "device_get_failed", "device_id", c.Param("id"))
		return
	}
	resp := gin.H{"device": device}
	if latest != nil {
		resp["latest_sample"] = latest
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Delete device
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteDevice(c *gin.Context) {
	if err := h.services.Devices.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.respondServiceError(c, err, errDeleteDevice, "device_delete_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary      Send device command
// @Description  set_angle requires angle in [0,180]; open_window is refused while rain/smoke is reported
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body  commandRequest  true  "Command payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/devices/{id}/commands [post]
// @Security     BearerAuth
func (h *Handler) dispatchCommand(c *gin.Context) {
	var req commandRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Devices.Dispatch(c.Request.Context(), userID(c), c.Param("id"), service.CommandParams{
		Action: req.Action,
		Angle:  req.Angle,
	})
	if err != nil {
		h.respondServiceError(c, err, errDispatchCommand, "device_command_failed", "device_id", c.Param("id"), "action", req.Action)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dispatched", "action": req.Action})
}
