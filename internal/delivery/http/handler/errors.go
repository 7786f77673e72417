package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lorawan-transform-service/internal/domain/device"
	"lorawan-transform-service/internal/domain/uplink"
	"lorawan-transform-service/internal/ingestion"
	apperrors "lorawan-transform-service/pkg/errors"
	"lorawan-transform-service/pkg/utils"
)

// toAppError classifies a domain error into a stable code and HTTP status.
func toAppError(err error) (int, *apperrors.AppError) {
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		return http.StatusNotFound, apperrors.NewAppError("DEVICE_NOT_FOUND", "device not found", err)
	case errors.Is(err, device.ErrBindingNotFound):
		return http.StatusNotFound, apperrors.NewAppError("BINDING_NOT_FOUND", "codec binding not found", err)
	case errors.Is(err, device.ErrNoModelAssigned):
		return http.StatusConflict, apperrors.NewAppError("NO_MODEL_ASSIGNED", "device has no model assigned", err)
	case errors.Is(err, device.ErrAssignmentFailed):
		return http.StatusConflict, apperrors.NewAppError("ASSIGNMENT_FAILED", "model assignment failed", err)
	case errors.Is(err, uplink.ErrUplinkNotFound):
		return http.StatusNotFound, apperrors.NewAppError("UPLINK_NOT_FOUND", "uplink not found", err)
	case errors.Is(err, uplink.ErrReadingNotFound):
		return http.StatusNotFound, apperrors.NewAppError("READING_NOT_FOUND", "reading not found", err)
	case errors.Is(err, ingestion.ErrMissingDevEUI):
		return http.StatusBadRequest, apperrors.NewAppError("MISSING_DEVEUI", "uplink has no DevEUI", err)
	default:
		return http.StatusInternalServerError, apperrors.NewAppError("INTERNAL", "internal server error", err)
	}
}

func respondError(c *gin.Context, err error) {
	status, appErr := toAppError(err)
	utils.ErrorResponseWithCode(c, status, appErr.Code, appErr.Message)
}
