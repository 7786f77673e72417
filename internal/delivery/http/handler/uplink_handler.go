package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lorawan-transform-service/internal/domain/enrichment"
	"lorawan-transform-service/internal/domain/uplink"
	"lorawan-transform-service/pkg/utils"
)

// UplinkHandler exposes read access to stored uplinks, their decoded
// readings, and their enrichment trails.
type UplinkHandler struct {
	uplinks uplink.Repository
	logs    enrichment.Repository
}

func NewUplinkHandler(uplinks uplink.Repository, logs enrichment.Repository) *UplinkHandler {
	return &UplinkHandler{uplinks: uplinks, logs: logs}
}

func (h *UplinkHandler) RegisterRoutes(router *gin.RouterGroup) {
	uplinks := router.Group("/uplinks")
	{
		uplinks.GET("/:id", h.GetUplink)
		uplinks.GET("/:id/trail", h.GetTrail)
		uplinks.GET("/:id/reading", h.GetReading)
	}

	router.GET("/pipeline/status", h.PipelineStatus)
}

func (h *UplinkHandler) uplinkUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid uplink UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *UplinkHandler) GetUplink(c *gin.Context) {
	id, ok := h.uplinkUUID(c)
	if !ok {
		return
	}

	up, err := h.uplinks.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Uplink retrieved successfully", ToUplinkResponse(up))
}

// GetTrail returns the full enrichment log of one uplink, oldest first.
func (h *UplinkHandler) GetTrail(c *gin.Context) {
	id, ok := h.uplinkUUID(c)
	if !ok {
		return
	}

	trail, err := h.logs.Trail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trail retrieved successfully", ToTrailResponse(trail))
}

func (h *UplinkHandler) GetReading(c *gin.Context) {
	id, ok := h.uplinkUUID(c)
	if !ok {
		return
	}

	reading, err := h.uplinks.GetReading(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reading retrieved successfully", ToReadingResponse(reading))
}

// PipelineStatus reports how many uplinks sit at each (step, status) pair.
func (h *UplinkHandler) PipelineStatus(c *gin.Context) {
	counts, err := h.logs.CountByLatestState(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Pipeline status retrieved successfully", ToStateCountResponses(counts))
}
