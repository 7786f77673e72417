package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"lorawan-transform-service/internal/domain/device"
	"lorawan-transform-service/pkg/utils"
)

var devEUIPattern = regexp.MustCompile(`^[0-9A-Fa-f]{16}$`)

// DeviceHandler exposes device context and codec binding management.
type DeviceHandler struct {
	repo device.Repository
}

func NewDeviceHandler(repo device.Repository) *DeviceHandler {
	return &DeviceHandler{repo: repo}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.GET("", h.ListDevices)
		devices.GET("/:deveui", h.GetDevice)
		devices.POST("/:deveui/assign-model", h.AssignModel)
		devices.POST("/:deveui/archive", h.ArchiveDevice)
	}

	router.GET("/codec-bindings", h.ListBindings)
}

type deviceFilterRequest struct {
	State       string `form:"state"`
	OrphansOnly bool   `form:"orphans_only"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

func (h *DeviceHandler) ListDevices(c *gin.Context) {
	var req deviceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	filter := &device.Filter{
		OrphansOnly: req.OrphansOnly,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}
	if req.State != "" {
		state := device.LifecycleState(req.State)
		filter.LifecycleState = &state
	}

	contexts, err := h.repo.ListContexts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Devices retrieved successfully", ToDeviceResponses(contexts))
}

func (h *DeviceHandler) GetDevice(c *gin.Context) {
	devEUI := strings.ToUpper(c.Param("deveui"))
	if !devEUIPattern.MatchString(devEUI) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid DevEUI")
		return
	}

	ctx, err := h.repo.GetContext(c.Request.Context(), devEUI)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device retrieved successfully", ToDeviceResponse(ctx))
}

type assignModelRequest struct {
	BindingID int `json:"binding_id" binding:"required,gt=0"`
}

// AssignModel binds a codec binding to a device, promoting orphans to
// ASSIGNED. The pipeline's retry-pending stage unparks the device's parked
// uplinks on its next tick; uplinks at unpacking:fail re-resolve the new
// codec through the retry stage.
func (h *DeviceHandler) AssignModel(c *gin.Context) {
	devEUI := strings.ToUpper(c.Param("deveui"))
	if !devEUIPattern.MatchString(devEUI) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid DevEUI")
		return
	}

	var req assignModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.repo.GetBinding(c.Request.Context(), req.BindingID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.repo.AssignBinding(c.Request.Context(), devEUI, req.BindingID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Model assigned successfully", gin.H{
		"deveui":     devEUI,
		"binding_id": req.BindingID,
	})
}

func (h *DeviceHandler) ArchiveDevice(c *gin.Context) {
	devEUI := strings.ToUpper(c.Param("deveui"))
	if !devEUIPattern.MatchString(devEUI) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid DevEUI")
		return
	}

	if err := h.repo.Archive(c.Request.Context(), devEUI); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device archived successfully", gin.H{"deveui": devEUI})
}

func (h *DeviceHandler) ListBindings(c *gin.Context) {
	bindings, err := h.repo.ListBindings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Codec bindings retrieved successfully", ToCodecBindingResponses(bindings))
}
