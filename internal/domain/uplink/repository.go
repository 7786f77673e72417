package uplink

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for uplinks and their
// decoded readings.
type Repository interface {
	Create(ctx context.Context, up *Uplink) error
	GetByID(ctx context.Context, uplinkUUID uuid.UUID) (*Uplink, error)

	// FindByLatestState returns up to limit uplinks whose most recent
	// enrichment log entry is exactly (step, status), oldest first. This is
	// the hot path every pipeline tick runs, served from the latest-state
	// side table rather than an aggregate over the full log.
	FindByLatestState(ctx context.Context, step, status string, limit int) ([]*Uplink, error)

	// SaveReading inserts the reading for an uplink, replacing any prior
	// one (readings are recomputed on retry).
	SaveReading(ctx context.Context, r *Reading) error
	GetReading(ctx context.Context, uplinkUUID uuid.UUID) (*Reading, error)
}
