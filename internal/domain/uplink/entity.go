package uplink

import (
	"time"

	"github.com/google/uuid"
)

// Uplink is one radio message received from a device. Rows are created once
// at ingestion and never mutated afterwards.
type Uplink struct {
	UplinkUUID uuid.UUID
	DevEUI     string
	ReceivedAt time.Time
	FPort      *int
	Payload    []byte
	Metadata   map[string]any
	Source     string
	GatewayEUI *string
	RSSI       *float64
	SNR        *float64
	InsertedAt time.Time
}

// Reading is the decoded form of one uplink. Fields holds the semantic
// mapping produced by the codec, or the {"status": "not_decoded"} marker
// when decoding failed. A retry replaces the prior reading for the same
// uplink.
type Reading struct {
	UplinkUUID uuid.UUID
	DevEUI     string
	Fields     map[string]any
	DecodedAt  time.Time
}

// NotDecoded is the failure marker stored in place of decoded fields.
func NotDecoded() map[string]any {
	return map[string]any{"status": "not_decoded"}
}
