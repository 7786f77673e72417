package devices

import (
	"bytes"
	"encoding/hex"

	"lorawan-transform-service/internal/codec"
)

// netvoxR716PressFrame is the only documented R716 uplink: eleven zero
// bytes signalling a button press.
var netvoxR716PressFrame = make([]byte, 11)

// NetvoxR716 decodes the R716 emergency button on port 6. Anything other
// than the known press frame is reported as unrecognized raw content, not
// rejected: the device is known to emit undocumented frames in the field.
func NetvoxR716(b []byte, port int) (codec.Fields, error) {
	if port != 6 {
		return nil, codec.InvalidFramef("unexpected fport: %d, expected 6", port)
	}

	if bytes.Equal(b, netvoxR716PressFrame) {
		return codec.Fields{
			"button_pressed": true,
			"payload_valid":  true,
			"raw_length":     len(b),
		}, nil
	}

	return codec.Fields{
		"button_pressed": false,
		"payload_valid":  false,
		"raw_hex":        hex.EncodeToString(b),
		"raw_length":     len(b),
	}, nil
}
