package devices

import (
	"encoding/hex"
	"fmt"

	"lorawan-transform-service/internal/codec"
)

// MilesightAM103 decodes the AM103 indoor air sensor on port 85. Telemetry
// is a TLV stream of (channel, type) headers with sizes fixed per pair; a
// leading 0xFF byte switches to the "basic information" grammar with
// explicit 3-byte headers. Unrecognized pairs do not fail the whole decode:
// they are preserved as hex under a synthesized key, which is how Milesight
// firmware ships new channels without breaking old decoders.
func MilesightAM103(b []byte, port int) (codec.Fields, error) {
	if port != 85 {
		return nil, codec.InvalidFramef("unexpected fport: %d, expected 85", port)
	}
	if len(b) == 0 {
		return codec.Fields{"status": "not_decoded", "error": "empty payload"}, nil
	}

	if b[0] == 0xFF {
		return am103BasicInfo(b), nil
	}

	fields := codec.Fields{}
	index := 0
	for index+1 < len(b) {
		channel := b[index]
		dataType := b[index+1]

		size, known := am103DataSize(channel, dataType)
		if !known {
			// Size is unknowable for a foreign pair, so the rest of the
			// frame is preserved verbatim and decoding stops here.
			fields[fmt.Sprintf("unknown_%02X_%02X", channel, dataType)] = hex.EncodeToString(b[index+2:])
			break
		}
		if index+2+size > len(b) {
			fields[fmt.Sprintf("error_at_index_%d", index)] = fmt.Sprintf(
				"truncated value for channel/type (%#x, %#x): %d bytes left, expected %d",
				channel, dataType, len(b)-index-2, size)
			break
		}
		data := b[index+2 : index+2+size]

		switch {
		case channel == 0x01 && dataType == 0x75: // battery, 0-254
			fields["battery_raw"] = int(data[0])
			fields["battery_pct"] = int(float64(data[0])/254*100 + 0.5)
		case channel == 0x03 && dataType == 0x67: // temperature, 0.1 degC
			fields["temperature"] = float64(le16s(data)) / 10
		case channel == 0x04 && dataType == 0x68: // humidity, 0.5 %RH
			fields["humidity"] = float64(data[0]) / 2
		case channel == 0x07 && dataType == 0x7D: // CO2 ppm
			fields["co2_ppm"] = le16(data)
		}

		index += 2 + size
	}

	return fields, nil
}

func am103DataSize(channel, dataType byte) (int, bool) {
	switch {
	case channel == 0x01 && dataType == 0x75:
		return 1, true
	case channel == 0x03 && dataType == 0x67:
		return 2, true
	case channel == 0x04 && dataType == 0x68:
		return 1, true
	case channel == 0x07 && dataType == 0x7D:
		return 2, true
	}
	return 0, false
}

// am103BasicInfo parses the 0xFF-prefixed device information frame. Each
// entry carries its own size byte, so unknown pairs stay decodable.
func am103BasicInfo(b []byte) codec.Fields {
	fields := codec.Fields{}
	index := 1 // skip the 0xFF prefix
	for index+4 <= len(b) {
		channel := b[index]
		dataType := b[index+1]
		size := int(b[index+2])
		if index+3+size > len(b) {
			fields[fmt.Sprintf("error_basic_at_index_%d", index)] = fmt.Sprintf(
				"truncated value: %d bytes left, expected %d", len(b)-index-3, size)
			break
		}
		data := b[index+3 : index+3+size]

		ok := true
		switch {
		case channel == 0xFF && dataType == 0x01:
			ok = len(data) >= 1
			if ok {
				fields["protocol_version"] = int(data[0])
			}
		case channel == 0xFF && dataType == 0x09:
			ok = len(data) >= 2
			if ok {
				fields["hardware_version"] = fmt.Sprintf("%d.%d", data[0], data[1])
			}
		case channel == 0xFF && dataType == 0x0A:
			ok = len(data) >= 2
			if ok {
				fields["software_version"] = fmt.Sprintf("%d.%d", data[0], data[1])
			}
		case channel == 0xFF && dataType == 0x0F:
			ok = len(data) >= 1
			if ok {
				fields["device_type"] = am103DeviceClass(data[0])
			}
		case channel == 0xFF && dataType == 0x16:
			fields["device_sn"] = hex.EncodeToString(data)
		case channel == 0xFF && dataType == 0x18:
			ok = len(data) >= 1
			if ok {
				fields["temp_sensor"] = data[0]&0x01 != 0
				fields["hum_sensor"] = data[0]&0x02 != 0
				fields["co2_sensor"] = data[0]&0x10 != 0
			}
		default:
			fields[fmt.Sprintf("unknown_basic_%02X_%02X", channel, dataType)] = hex.EncodeToString(data)
		}
		if !ok {
			fields[fmt.Sprintf("error_basic_at_index_%d", index)] = "value shorter than field layout"
			break
		}

		index += 3 + size
	}
	return fields
}

func am103DeviceClass(dt byte) string {
	switch dt {
	case 0:
		return "Class A"
	case 1:
		return "Class B"
	case 2:
		return "Class C"
	}
	return fmt.Sprintf("Unknown (%d)", dt)
}
