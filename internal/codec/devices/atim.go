package devices

import (
	"fmt"

	"lorawan-transform-service/internal/codec"
)

// ATIMACWLW8 decodes the ACW/LW8-TST network tester on port 2: a single
// status byte grading the signal quality.
func ATIMACWLW8(b []byte, port int) (codec.Fields, error) {
	if port != 2 {
		return nil, codec.InvalidFramef("unexpected port %d, expected 2", port)
	}
	if len(b) != 1 {
		return nil, codec.InvalidFramef("unexpected payload length: %d bytes, expected 1", len(b))
	}

	status := b[0]

	var description string
	switch status {
	case 0x00:
		description = "Waiting for network"
	case 0x01:
		description = "No signal"
	case 0x02:
		description = "Low signal"
	case 0x03:
		description = "Good signal"
	case 0x04:
		description = "Excellent signal"
	default:
		description = fmt.Sprintf("Unknown status: %d", status)
	}

	return codec.Fields{
		"status":      int(status),
		"description": description,
	}, nil
}
