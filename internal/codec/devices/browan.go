package devices

import (
	"lorawan-transform-service/internal/codec"
)

// Browan Tabs sensors share a handful of field encodings: battery voltage is
// (2.5 + lowNibble/10) V, temperatures are 7-bit magnitude with a -32 offset
// (not two's complement), and humidity is 7 bits with 0x7F meaning the
// sensor could not read.

func browanBattery(b byte) float64 {
	return float64(25+int(b&0x0F)) / 10
}

func browanTemperature(b byte) int {
	return int(b&0x7F) - 32
}

// BrowanTBHH100 decodes the TBHH100 temperature/humidity sensor.
// Status uplinks arrive on ports 102, 103 or 107.
func BrowanTBHH100(b []byte, port int) (codec.Fields, error) {
	if port != 102 && port != 103 && port != 107 {
		return nil, codec.InvalidFramef("unexpected port %d, expected 102, 103, or 107", port)
	}
	if len(b) < 4 {
		return nil, codec.InvalidFramef("payload too short: %d bytes, expected at least 4", len(b))
	}

	humidity := int(b[3] & 0x7F)

	return codec.Fields{
		"battery_voltage": browanBattery(b[1]),
		"temperature":     browanTemperature(b[2]),
		"humidity":        humidity,
		"humidity_error":  humidity == 127,
	}, nil
}

// BrowanTBHV110 decodes the TBHV110 healthy-home IAQ sensor: status frames
// on port 103, configuration responses on port 204.
func BrowanTBHV110(b []byte, port int) (codec.Fields, error) {
	switch port {
	case 103:
		return browanTBHV110Status(b)
	case 204:
		return browanTBHV110Config(b)
	default:
		return nil, codec.InvalidFramef("unexpected fport: %d, expected 103 or 204", port)
	}
}

func browanTBHV110Status(b []byte) (codec.Fields, error) {
	if len(b) != 11 {
		return nil, codec.InvalidFramef("unexpected payload length for status: %d bytes, expected 11", len(b))
	}

	status := b[0]

	return codec.Fields{
		"trigger_event":           status&0x01 != 0,
		"temp_changed":            status&0x10 != 0,
		"humidity_changed":        status&0x20 != 0,
		"iaq_changed":             status&0x40 != 0,
		"battery_voltage":         browanBattery(b[1]),
		"pcb_temperature":         browanTemperature(b[2]),
		"humidity":                int(b[3] & 0x7F),
		"co2_equivalent":          be16(b[4:6]),
		"voc":                     be16(b[6:8]),
		"iaq_index":               be16(b[8:10]),
		"environment_temperature": browanTemperature(b[10]),
	}, nil
}

func browanTBHV110Config(b []byte) (codec.Fields, error) {
	if len(b) != 8 {
		return nil, codec.InvalidFramef("unexpected payload length for config response: %d bytes, expected 8", len(b))
	}

	return codec.Fields{
		"keep_alive_interval": int(b[1]) * 5, // stored in 5 s units
		"temperature_delta":   int(b[3]),
		"humidity_delta":      int(b[5]),
		"iaq_index_delta":     int(b[7]),
	}, nil
}

// BrowanTBDW decodes the TBDW100 door/window sensor on port 100.
func BrowanTBDW(b []byte, port int) (codec.Fields, error) {
	if port != 100 {
		return nil, codec.InvalidFramef("unexpected port %d, expected 100", port)
	}
	if len(b) != 8 {
		return nil, codec.InvalidFramef("payload length is %d bytes, expected 8", len(b))
	}

	open := b[0]&0x01 != 0
	status := 0
	openShut := "closed"
	if open {
		status = 1
		openShut = "open"
	}

	return codec.Fields{
		"status":                status,
		"open_shut":             openShut,
		"battery_voltage":       browanBattery(b[1]),
		"pcb_temperature":       browanTemperature(b[2]),
		"time_since_last_event": le16(b[3:5]),
		"event_count":           le24(b[5:8]),
	}, nil
}

// BrowanTBMS100 decodes the TBMS100 motion sensor: status frames on port
// 102, configuration responses on port 204.
func BrowanTBMS100(b []byte, port int) (codec.Fields, error) {
	switch port {
	case 102:
		return browanTBMS100Status(b)
	case 204:
		return browanTBMS100Config(b)
	default:
		return nil, codec.InvalidFramef("unexpected fport: %d, expected 102 or 204", port)
	}
}

func browanTBMS100Status(b []byte) (codec.Fields, error) {
	if len(b) != 8 {
		return nil, codec.InvalidFramef("unexpected payload length for status: %d bytes, expected 8", len(b))
	}

	return codec.Fields{
		"occupied":              b[0]&0x01 != 0,
		"battery_voltage":       browanBattery(b[1]),
		"pcb_temperature":       browanTemperature(b[2]),
		"time_since_last_event": le16(b[3:5]),
		"event_count":           le24(b[5:8]),
	}, nil
}

func browanTBMS100Config(b []byte) (codec.Fields, error) {
	if len(b) != 16 {
		return nil, codec.InvalidFramef("unexpected payload length for config response: %d bytes, expected 16", len(b))
	}

	return codec.Fields{
		"reporting_interval":  le16(b[1:3]),
		"occupied_interval":   le16(b[3:5]),
		"free_detection_time": int(b[6]),
		"trigger_count":       le16(b[8:10]),
		"pir_config":          le32(b[11:15]),
	}, nil
}

// BrowanTBWL decodes the TBWL100 water-leak sensor: status frames on port
// 106, configuration responses on port 204.
func BrowanTBWL(b []byte, port int) (codec.Fields, error) {
	switch port {
	case 106:
		return browanTBWLStatus(b)
	case 204:
		return browanTBWLConfig(b)
	default:
		return nil, codec.InvalidFramef("unexpected fport: %d, expected 106 or 204", port)
	}
}

func browanTBWLStatus(b []byte) (codec.Fields, error) {
	if len(b) != 5 {
		return nil, codec.InvalidFramef("unexpected payload length for status: %d bytes, expected 5", len(b))
	}

	status := b[0]

	return codec.Fields{
		"leak_detected":           status&0x01 != 0,
		"leak_interrupt":          status&0x10 != 0,
		"temperature_changed":     status&0x20 != 0,
		"humidity_changed":        status&0x40 != 0,
		"battery_voltage":         browanBattery(b[1]),
		"pcb_temperature":         browanTemperature(b[2]),
		"humidity":                int(b[3] & 0x7F),
		"humidity_error":          b[3] == 0x7F,
		"environment_temperature": browanTemperature(b[4]),
	}, nil
}

func browanTBWLConfig(b []byte) (codec.Fields, error) {
	if len(b) != 10 {
		return nil, codec.InvalidFramef("unexpected payload length for config response: %d bytes, expected 10", len(b))
	}

	return codec.Fields{
		"keep_alive_interval": le16(b[1:3]),
		"temperature_delta":   int(b[3]),
		"humidity_delta":      int(b[5]),
		"detection_interval":  le16(b[7:9]),
	}, nil
}
