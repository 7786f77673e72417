package devices

import (
	"lorawan-transform-service/internal/codec"
)

// SmilioAS decodes the Smilio Action S button panel on port 2. The first
// byte selects the frame: fixed-length keep-alive/normal/hall-effect/pulse
// frames, or a code frame where the selector's low nibble itself carries two
// 2-bit acknowledge counters.
func SmilioAS(b []byte, port int) (codec.Fields, error) {
	if port != 2 {
		return nil, codec.InvalidFramef("unexpected port %d, expected 2", port)
	}
	if len(b) < 2 {
		return nil, codec.InvalidFramef("payload too short: %d bytes", len(b))
	}

	frameType := b[0]

	switch {
	case frameType == 0x01: // keep-alive with battery readings
		if len(b) != 6 {
			return nil, codec.InvalidFramef("unexpected payload length for keep-alive: %d bytes, expected 6", len(b))
		}
		if b[5] != 0x64 {
			return nil, codec.InvalidFramef("unexpected terminator byte: 0x%02X, expected 0x64", b[5])
		}
		return codec.Fields{
			"frame_type":      "keep_alive",
			"battery_idle_mV": be16(b[1:3]),
			"battery_tx_mV":   be16(b[3:5]),
			"terminator":      int(b[5]),
		}, nil

	case frameType == 0x02: // button press counters
		if len(b) != 11 {
			return nil, codec.InvalidFramef("unexpected payload length for normal: %d bytes, expected 11", len(b))
		}
		return codec.Fields{
			"frame_type": "normal",
			"counter_1":  be16(b[1:3]),
			"counter_2":  be16(b[3:5]),
			"counter_3":  be16(b[5:7]),
			"counter_4":  be16(b[7:9]),
			"counter_5":  be16(b[9:11]),
		}, nil

	case frameType == 0x03: // magnet detection counters
		if len(b) != 12 {
			return nil, codec.InvalidFramef("unexpected payload length for hall effect: %d bytes, expected 12", len(b))
		}
		return codec.Fields{
			"frame_type": "hall_effect",
			"counter_1":  be16(b[1:3]),
			"counter_2":  be16(b[3:5]),
			"counter_3":  be16(b[5:7]),
			"counter_4":  be16(b[7:9]),
			"counter_5":  be16(b[9:11]),
		}, nil

	case frameType == 0x40: // pulse mode, binary on/off per button
		if len(b) != 12 {
			return nil, codec.InvalidFramef("unexpected payload length for pulse: %d bytes, expected 12", len(b))
		}
		return codec.Fields{
			"frame_type": "pulse",
			"button_1":   be16(b[1:3]) != 0,
			"button_2":   be16(b[3:5]) != 0,
			"button_3":   be16(b[5:7]) != 0,
			"button_4":   be16(b[7:9]) != 0,
			"button_5":   be16(b[9:11]) != 0,
		}, nil

	case frameType&0xF0 == 0x10: // code mode, ack bits + 2 x 4-byte codes
		if len(b) != 15 {
			return nil, codec.InvalidFramef("unexpected payload length for code mode: %d bytes, expected 15", len(b))
		}
		return codec.Fields{
			"frame_type": "code",
			"ack_1":      int(frameType&0x0C) >> 2,
			"ack_2":      int(frameType & 0x03),
			"time_last":  be16(b[1:3]),
			"time_tx":    be16(b[3:5]),
			"code_2":     be32(b[5:9]),
			"code_1":     be32(b[9:13]),
		}, nil
	}

	return nil, codec.InvalidFramef("unexpected frame type: 0x%02X", frameType)
}
