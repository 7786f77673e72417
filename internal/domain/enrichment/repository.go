package enrichment

import (
	"context"

	"github.com/google/uuid"
)

// Repository appends and queries the enrichment log. Append must also
// refresh the latest-state index for the uplink in the same transaction, so
// FindByLatestState queries never scan the full log.
type Repository interface {
	Append(ctx context.Context, uplinkUUID uuid.UUID, step, status, detail string) error
	Trail(ctx context.Context, uplinkUUID uuid.UUID) ([]*Entry, error)
	CountByLatestState(ctx context.Context) ([]*StateCount, error)
}
