package codec

import (
	"encoding/hex"
	"fmt"
)

// NormalizePayload coalesces the payload representations seen at the
// pipeline boundary into one canonical byte slice, so every codec receives
// plain binary.
//
// A string is decoded strictly as hex. A byte slice is normally passed
// through untouched, with one exception: network servers sometimes deliver
// the hex text itself as the raw column value, so a byte slice whose content
// is even-length ASCII hex is decoded — but only when the decoded frame is
// not shorter than half the original, which keeps genuinely binary frames
// that merely look hex-like from being re-decoded.
func NormalizePayload(payload any) ([]byte, error) {
	var b []byte

	switch p := payload.(type) {
	case nil:
		return nil, ErrMissingPayload
	case []byte:
		if decoded, ok := sniffASCIIHex(p); ok {
			b = decoded
		} else {
			b = p
		}
	case string:
		decoded, err := hex.DecodeString(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not valid hex", ErrMalformedPayload, p)
		}
		b = decoded
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPayloadType, payload)
	}

	if len(b) == 0 {
		return nil, ErrMissingPayload
	}
	return b, nil
}

// sniffASCIIHex reports whether raw is an even-length ASCII hex rendering of
// a frame, returning the decoded bytes when it is.
func sniffASCIIHex(raw []byte) ([]byte, bool) {
	if len(raw) == 0 || len(raw)%2 != 0 {
		return nil, false
	}
	for _, c := range raw {
		if !isHexDigit(c) {
			return nil, false
		}
	}
	decoded, err := hex.DecodeString(string(raw))
	if err != nil {
		return nil, false
	}
	if len(decoded) < len(raw)/2 {
		return nil, false
	}
	return decoded, true
}

func isHexDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}
