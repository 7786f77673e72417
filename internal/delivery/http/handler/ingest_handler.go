package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lorawan-transform-service/internal/ingestion"
	"lorawan-transform-service/pkg/utils"
)

// IngestHandler exposes the carrier webhook endpoints.
type IngestHandler struct {
	service *ingestion.Service
}

func NewIngestHandler(service *ingestion.Service) *IngestHandler {
	return &IngestHandler{service: service}
}

func (h *IngestHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/ingest/:carrier", h.IngestUplink)
}

// IngestUplink accepts a raw carrier document and stores the normalized
// uplink. The carrier path segment selects the parser.
func (h *IngestHandler) IngestUplink(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Request body required")
		return
	}

	up, err := h.service.Ingest(c.Request.Context(), c.Param("carrier"), body)
	if err != nil {
		var parseErr *ingestion.ParseError
		if errors.As(err, &parseErr) || errors.Is(err, ingestion.ErrMissingDevEUI) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Uplink accepted", gin.H{
		"uplink_uuid": up.UplinkUUID,
		"deveui":      up.DevEUI,
		"source":      up.Source,
	})
}
