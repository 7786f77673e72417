// Package enrichment defines the append-only event log that carries the
// pipeline's state. An uplink's current stage is the (step, status) of its
// most recent entry; entries are never updated or deleted.
package enrichment

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline steps, in processing order.
const (
	StepIngestionReceived   = "ingestion_received"
	StepContextEnrichment   = "context_enrichment"
	StepUnpackingInit       = "unpacking_init"
	StepUnpacking           = "unpacking"
	StepAnalyticsForwarding = "analytics_forwarding"
)

// Statuses attached to a step.
const (
	StatusNew     = "new"
	StatusPending = "pending"
	StatusReady   = "ready_for_unpacking"
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Entry is one immutable log row.
type Entry struct {
	ID         int64
	UplinkUUID uuid.UUID
	Step       string
	Status     string
	Detail     string
	CreatedAt  time.Time
}

// StateCount aggregates how many uplinks currently sit at a (step, status)
// pair, for the pipeline status endpoint.
type StateCount struct {
	Step   string
	Status string
	Count  int64
}
