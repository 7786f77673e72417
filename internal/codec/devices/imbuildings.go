package devices

import (
	"encoding/hex"
	"fmt"

	"lorawan-transform-service/internal/codec"
)

// IMBuildingsPC1 decodes the IMBUILDINGS people counter, payload type 0x02
// variant 0x06 (23 bytes). The device embeds its own DevEUI in the frame;
// the port is not discriminating for this model, so it is not checked.
func IMBuildingsPC1(b []byte, port int) (codec.Fields, error) {
	if len(b) != 23 {
		return nil, codec.InvalidFramef("expected 23-byte payload for Type 2 Variant 6, got %d bytes", len(b))
	}
	if b[0] != 0x02 || b[1] != 0x06 {
		return nil, codec.InvalidFramef("unsupported payload type/variant: %02x/%02x", b[0], b[1])
	}

	return codec.Fields{
		"dev_eui":          hex.EncodeToString(b[2:10]),
		"status_byte":      int(b[10]),
		"battery_voltage":  float64(be16(b[11:13])) / 1000, // frame carries mV
		"counter_a":        be16(b[13:15]),
		"counter_b":        be16(b[15:17]),
		"status_flags_raw": fmt.Sprintf("%08b", b[17]),
		"total_counter_a":  be16(b[18:20]),
		"total_counter_b":  be16(b[20:22]),
		"payload_counter":  int(b[22]),
	}, nil
}
