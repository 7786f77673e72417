package ingestion

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lorawan-transform-service/internal/domain/uplink"
)

// Carrier identifies the network operator format of an incoming uplink.
const (
	CarrierActility   = "actility"
	CarrierChirpStack = "chirpstack"
	CarrierNetmore    = "netmore"
	CarrierTTI        = "tti"
)

// ParseError marks a carrier document the parser could not understand, as
// opposed to a storage failure further down the ingest path.
type ParseError struct {
	Carrier string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Carrier, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse normalizes a raw carrier JSON document into an Uplink. The DevEUI is
// uppercased, the frame payload is decoded to bytes, and the full original
// document is preserved as metadata. A payload that fails to decode yields a
// nil Payload rather than an error; the pipeline records the decode failure
// downstream.
func Parse(carrier string, body []byte) (*uplink.Uplink, error) {
	name := strings.ToLower(strings.TrimSpace(carrier))

	var (
		up  *uplink.Uplink
		err error
	)
	switch name {
	case CarrierActility:
		up, err = parseActility(body)
	case CarrierChirpStack:
		up, err = parseChirpStack(body)
	case CarrierNetmore:
		up, err = parseNetmore(body)
	case CarrierTTI:
		up, err = parseTTI(body)
	default:
		return nil, &ParseError{Carrier: carrier, Err: fmt.Errorf("unknown carrier")}
	}

	if err != nil {
		return nil, &ParseError{Carrier: name, Err: err}
	}
	return up, nil
}

func parseActility(body []byte) (*uplink.Uplink, error) {
	doc, err := unmarshalObject(body)
	if err != nil {
		return nil, err
	}

	up := asObject(doc["DevEUI_uplink"])

	u := &uplink.Uplink{
		DevEUI:     strings.ToUpper(asString(up["DevEUI"])),
		Payload:    decodeHexFrame(asString(up["payload_hex"])),
		ReceivedAt: parseTimestamp(asString(up["Time"])),
		FPort:      asIntPtr(up["FPort"]),
		Metadata:   doc,
		Source:     CarrierActility,
		RSSI:       asFloatPtr(up["LrrRSSI"]),
		SNR:        asFloatPtr(up["LrrSNR"]),
	}

	// Actility reports the full base station name. Only the trailing 16
	// characters are the EUI.
	if name := asString(asObject(up["BaseStationData"])["name"]); name != "" {
		if len(name) > 16 {
			name = name[len(name)-16:]
		}
		u.GatewayEUI = &name
	}

	return u, nil
}

func parseChirpStack(body []byte) (*uplink.Uplink, error) {
	doc, err := unmarshalObject(body)
	if err != nil {
		return nil, err
	}

	u := &uplink.Uplink{
		DevEUI:     strings.ToUpper(asString(asObject(doc["deviceInfo"])["devEui"])),
		Payload:    decodeBase64Frame(asString(doc["data"])),
		ReceivedAt: parseTimestamp(asString(doc["time"])),
		FPort:      asIntPtr(doc["fPort"]),
		Metadata:   doc,
		Source:     CarrierChirpStack,
	}

	if rx, ok := doc["rxInfo"].([]any); ok && len(rx) > 0 {
		first := asObject(rx[0])
		if gw := asString(first["gatewayId"]); gw != "" {
			u.GatewayEUI = &gw
		}
		u.RSSI = asFloatPtr(first["rssi"])
		u.SNR = asFloatPtr(first["snr"])
	}

	return u, nil
}

func parseNetmore(body []byte) (*uplink.Uplink, error) {
	// Netmore wraps single uplinks in a one-element array.
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	var doc map[string]any
	switch v := raw.(type) {
	case map[string]any:
		doc = v
	case []any:
		if len(v) != 1 {
			return nil, fmt.Errorf("batched uplinks not supported (got %d)", len(v))
		}
		doc = asObject(v[0])
		if doc == nil {
			return nil, fmt.Errorf("array element is not an object")
		}
	default:
		return nil, fmt.Errorf("unexpected document shape")
	}

	fport := 0
	if p := asIntPtr(doc["fPort"]); p != nil {
		fport = *p
	} else if p := asIntPtr(doc["FPort"]); p != nil {
		fport = *p
	}

	u := &uplink.Uplink{
		DevEUI:     strings.ToUpper(asString(doc["devEui"])),
		Payload:    decodeHexFrame(asString(doc["payload"])),
		ReceivedAt: parseTimestamp(asString(doc["timestamp"])),
		FPort:      &fport,
		Metadata:   doc,
		Source:     CarrierNetmore,
		RSSI:       asFloatPtr(doc["rssi"]),
		SNR:        asFloatPtr(doc["snr"]),
	}

	// Netmore gateway identifiers are not EUIs; prefix them so they sort
	// apart from real gateway EUIs.
	if gw := asString(doc["gatewayIdentifier"]); gw != "" {
		tagged := "NETMORE-" + gw
		u.GatewayEUI = &tagged
	}

	return u, nil
}

func parseTTI(body []byte) (*uplink.Uplink, error) {
	doc, err := unmarshalObject(body)
	if err != nil {
		return nil, err
	}

	// TTI can deliver the same uplink under both keys; uplink_message is the
	// authoritative one when present.
	up := asObject(doc["uplink_message"])
	if up == nil {
		up = asObject(doc["uplink_normalized"])
	}

	ts := asString(up["received_at"])
	if ts == "" {
		ts = asString(doc["received_at"])
	}

	u := &uplink.Uplink{
		DevEUI:     strings.ToUpper(asString(asObject(doc["end_device_ids"])["dev_eui"])),
		Payload:    decodeBase64Frame(asString(up["frm_payload"])),
		ReceivedAt: parseTimestamp(ts),
		FPort:      asIntPtr(up["f_port"]),
		Metadata:   doc,
		Source:     CarrierTTI,
	}

	if rx, ok := up["rx_metadata"].([]any); ok && len(rx) > 0 {
		ids := asObject(asObject(rx[0])["gateway_ids"])
		if eui := asString(ids["eui"]); eui != "" {
			u.GatewayEUI = &eui
		}
		u.RSSI = asFloatPtr(asObject(rx[0])["rssi"])
		u.SNR = asFloatPtr(asObject(rx[0])["snr"])
	}

	return u, nil
}

func unmarshalObject(body []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

// decodeHexFrame decodes a hex frame, returning nil on malformed input so a
// bad frame still gets stored and surfaces as a decode failure later.
func decodeHexFrame(s string) []byte {
	if s == "" {
		return nil
	}
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return b
}

func decodeBase64Frame(s string) []byte {
	if s == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// parseTimestamp accepts RFC 3339 with or without sub-second precision and
// falls back to the current time, mirroring how carriers with clock issues
// are tolerated.
func parseTimestamp(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloatPtr reads a numeric field that carriers deliver as either a JSON
// number or a quoted string.
func asFloatPtr(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		if n == "" {
			return nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func asIntPtr(v any) *int {
	f := asFloatPtr(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}
