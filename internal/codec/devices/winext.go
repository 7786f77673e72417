package devices

import (
	"lorawan-transform-service/internal/codec"
)

// WinextAN102C decodes the AN-102C smoke detector on port 46. A two-byte
// header (sensor type, frame type) selects heartbeat, self-test, or alarm
// frames; the bitmask flag decoders are shared between them.
func WinextAN102C(b []byte, port int) (codec.Fields, error) {
	if port != 46 {
		return nil, codec.InvalidFramef("unexpected port %d, expected 46", port)
	}
	if len(b) < 2 {
		return nil, codec.InvalidFramef("payload too short: %d bytes", len(b))
	}
	if b[0] != 0x01 {
		return nil, codec.InvalidFramef("unexpected sensor type: 0x%02X, expected 0x01", b[0])
	}

	switch b[1] {
	case 0x01: // heartbeat
		if len(b) != 11 {
			return nil, codec.InvalidFramef("unexpected heartbeat length: %d bytes, expected 11", len(b))
		}
		fields := codec.Fields{
			"frame_type":          "heartbeat",
			"smoke_concentration": float64(b[2]) / 100,
			"temperature":         float64(be16s(b[3:5])) / 100,
			"humidity":            int(b[5]),
			"battery_percent":     int(b[6]),
			"pollution":           int(b[9]),
			"voltage":             float64(b[10]) / 10,
		}
		winextAlarmFlags(fields, b[7])
		winextFaultFlags(fields, b[8])
		return fields, nil

	case 0x02: // self-test result
		if len(b) != 3 {
			return nil, codec.InvalidFramef("unexpected self-test length: %d bytes, expected 3", len(b))
		}
		fields := codec.Fields{"frame_type": "self_test"}
		winextSelfTestFlags(fields, b[2])
		return fields, nil

	case 0x03: // alarm
		if len(b) != 10 {
			return nil, codec.InvalidFramef("unexpected alarm length: %d bytes, expected 10", len(b))
		}
		fields := codec.Fields{
			"frame_type":          "alarm",
			"smoke_concentration": float64(b[4]) / 100,
			"temperature":         float64(be16s(b[5:7])) / 100,
			"humidity":            int(b[7]),
			"battery_percent":     int(b[8]),
			"pollution":           int(b[9]),
		}
		winextAlarmFlags(fields, b[2])
		winextFaultFlags(fields, b[3])
		return fields, nil
	}

	return nil, codec.InvalidFramef("unknown frame type: 0x%02X", b[1])
}

func winextAlarmFlags(fields codec.Fields, b byte) {
	fields["alarm_smoke"] = b&0x01 != 0
	fields["alarm_temperature"] = b&0x02 != 0
	fields["alarm_low_battery"] = b&0x04 != 0
}

func winextFaultFlags(fields codec.Fields, b byte) {
	fields["fault_smoke_sensor"] = b&0x01 != 0
	fields["fault_temp_rh_sensor"] = b&0x02 != 0
}

func winextSelfTestFlags(fields codec.Fields, b byte) {
	fields["self_test_active"] = b&0x80 != 0
	fields["self_test_smoke_sensor_fail"] = b&0x01 != 0
	fields["self_test_temp_rh_sensor_fail"] = b&0x02 != 0
}
