package devices

import (
	"lorawan-transform-service/internal/codec"
)

// MerryIoT battery bytes encode (2.1 + lowNibble/10) V, unlike the 2.5 V
// base the Browan sensors use.
func merryiotBattery(b byte) float64 {
	return float64(21+int(b&0x0F)) / 10
}

// MerryIoTCO2 decodes the CD10 CO2 sensor's 7-byte status frame on port 127.
func MerryIoTCO2(b []byte, port int) (codec.Fields, error) {
	if port != 127 {
		return nil, codec.InvalidFramef("unexpected fport: %d, expected 127", port)
	}
	if len(b) != 7 {
		return nil, codec.InvalidFramef("unexpected payload length: %d bytes, expected 7", len(b))
	}

	status := b[0]

	return codec.Fields{
		"trigger_event":        status&0x01 != 0,
		"button_pressed":       status&0x02 != 0,
		"co2_high_alarm":       status&0x10 != 0,
		"co2_calibration_flag": status&0x20 != 0,
		"battery_voltage":      merryiotBattery(b[1]),
		"temperature":          float64(le16s(b[2:4])) / 10,
		"humidity":             int(b[4] & 0x7F),
		"co2_ppm":              le16(b[5:7]),
	}, nil
}

// MerryIoTMS10 decodes the MS10 motion sensor: status frames on port 122,
// configuration responses on port 204.
func MerryIoTMS10(b []byte, port int) (codec.Fields, error) {
	switch port {
	case 122:
		return merryiotMS10Status(b)
	case 204:
		return merryiotMS10Config(b)
	default:
		return nil, codec.InvalidFramef("unexpected fport: %d, expected 122 or 204", port)
	}
}

func merryiotMS10Status(b []byte) (codec.Fields, error) {
	if len(b) != 10 {
		return nil, codec.InvalidFramef("unexpected payload length for status: %d bytes, expected 10", len(b))
	}

	status := b[0]

	return codec.Fields{
		"occupied":              status&0x01 != 0,
		"button_pressed":        status&0x02 != 0,
		"tamper_detected":       status&0x04 != 0,
		"battery_voltage":       merryiotBattery(b[1]),
		"temperature":           float64(le16s(b[2:4])) / 10,
		"humidity":              int(b[4] & 0x7F),
		"time_since_last_event": le16(b[5:7]),
		"event_count":           le24(b[7:10]),
	}, nil
}

func merryiotMS10Config(b []byte) (codec.Fields, error) {
	if len(b) != 18 {
		return nil, codec.InvalidFramef("unexpected payload length for config response: %d bytes, expected 18", len(b))
	}

	return codec.Fields{
		"keepalive_interval":  le16(b[1:3]),
		"occupied_interval":   le16(b[4:6]),
		"free_detection_time": int(b[7]),
		"trigger_count":       le16(b[9:11]),
		"pir_config":          le32(b[12:16]),
		"tamper_enabled":      b[17]&0x01 != 0,
	}, nil
}
