package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lorawan-transform-service/internal/domain/enrichment"
	"lorawan-transform-service/internal/domain/uplink"
	"lorawan-transform-service/internal/logger"
)

// ErrMissingDevEUI is returned when a carrier document carries no device
// identity; such uplinks cannot enter the pipeline.
var ErrMissingDevEUI = errors.New("uplink has no DevEUI")

// Service normalizes carrier uplinks, persists them, and opens their
// enrichment trail. It is the single entry point for both the HTTP and MQTT
// ingest paths.
type Service struct {
	uplinks uplink.Repository
	logs    enrichment.Repository
}

func NewService(uplinks uplink.Repository, logs enrichment.Repository) *Service {
	return &Service{uplinks: uplinks, logs: logs}
}

// Ingest parses a raw carrier document, stores the normalized uplink, and
// appends the ingestion_received:new log entry that makes it visible to the
// pipeline.
func (s *Service) Ingest(ctx context.Context, carrier string, body []byte) (*uplink.Uplink, error) {
	up, err := Parse(carrier, body)
	if err != nil {
		return nil, err
	}
	if up.DevEUI == "" {
		return nil, ErrMissingDevEUI
	}

	up.UplinkUUID = uuid.New()
	if up.ReceivedAt.IsZero() {
		up.ReceivedAt = time.Now().UTC()
	}

	if err := s.uplinks.Create(ctx, up); err != nil {
		return nil, fmt.Errorf("store uplink: %w", err)
	}

	detail := fmt.Sprintf("received via %s", up.Source)
	if err := s.logs.Append(ctx, up.UplinkUUID, enrichment.StepIngestionReceived, enrichment.StatusNew, detail); err != nil {
		return nil, fmt.Errorf("open enrichment trail: %w", err)
	}

	logger.Debug("uplink ingested",
		zap.String("uplink_uuid", up.UplinkUUID.String()),
		zap.String("deveui", up.DevEUI),
		zap.String("source", up.Source),
	)
	return up, nil
}
