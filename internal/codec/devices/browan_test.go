package devices

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"lorawan-transform-service/internal/codec"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func requireInvalidFrame(t *testing.T, err error) {
	t.Helper()
	var invalid *codec.InvalidFrameError
	require.ErrorAs(t, err, &invalid)
}

func TestBrowanTBHH100Status(t *testing.T) {
	fields, err := BrowanTBHH100(mustHex(t, "08fa0b4affffffff"), 103)
	require.NoError(t, err)

	require.Equal(t, 3.5, fields["battery_voltage"])
	require.Equal(t, -21, fields["temperature"])
	require.Equal(t, 74, fields["humidity"])
	require.Equal(t, false, fields["humidity_error"])
}

func TestBrowanTBHH100AcceptsAllStatusPorts(t *testing.T) {
	for _, port := range []int{102, 103, 107} {
		_, err := BrowanTBHH100(mustHex(t, "08fa0b4a"), port)
		require.NoError(t, err, "port %d", port)
	}
}

func TestBrowanTBHH100RejectsWrongPort(t *testing.T) {
	_, err := BrowanTBHH100(mustHex(t, "08fa0b4a"), 100)
	requireInvalidFrame(t, err)
}

func TestBrowanTBHH100RejectsShortFrame(t *testing.T) {
	_, err := BrowanTBHH100(mustHex(t, "08fa0b"), 103)
	requireInvalidFrame(t, err)
}

func TestBrowanTBHH100HumidityErrorSentinel(t *testing.T) {
	fields, err := BrowanTBHH100([]byte{0x00, 0xFA, 0x30, 0x7F}, 103)
	require.NoError(t, err)
	require.Equal(t, 127, fields["humidity"])
	require.Equal(t, true, fields["humidity_error"])
}

func TestBrowanTBHV110Status(t *testing.T) {
	// trigger + iaq_changed, battery 3.6 V, pcb 22 C, humidity 45,
	// co2 600 ppm, voc 125, iaq 80, env 21 C
	frame := []byte{0x41, 0xFB, 0x36, 0x2D, 0x02, 0x58, 0x00, 0x7D, 0x00, 0x50, 0x35}
	fields, err := BrowanTBHV110(frame, 103)
	require.NoError(t, err)

	require.Equal(t, true, fields["trigger_event"])
	require.Equal(t, false, fields["temp_changed"])
	require.Equal(t, true, fields["iaq_changed"])
	require.Equal(t, 3.6, fields["battery_voltage"])
	require.Equal(t, 22, fields["pcb_temperature"])
	require.Equal(t, 45, fields["humidity"])
	require.Equal(t, 600, fields["co2_equivalent"])
	require.Equal(t, 125, fields["voc"])
	require.Equal(t, 80, fields["iaq_index"])
	require.Equal(t, 21, fields["environment_temperature"])
}

func TestBrowanTBHV110StatusWrongLength(t *testing.T) {
	_, err := BrowanTBHV110(make([]byte, 10), 103)
	requireInvalidFrame(t, err)

	_, err = BrowanTBHV110(make([]byte, 12), 103)
	requireInvalidFrame(t, err)
}

func TestBrowanTBHV110Config(t *testing.T) {
	frame := []byte{0x00, 0x0C, 0x00, 0x02, 0x00, 0x05, 0x00, 0x0A}
	fields, err := BrowanTBHV110(frame, 204)
	require.NoError(t, err)

	require.Equal(t, 60, fields["keep_alive_interval"])
	require.Equal(t, 2, fields["temperature_delta"])
	require.Equal(t, 5, fields["humidity_delta"])
	require.Equal(t, 10, fields["iaq_index_delta"])
}

func TestBrowanTBDW(t *testing.T) {
	// open, battery 3.6 V, pcb 25 C, 300 s since event, 1000 events
	frame := []byte{0x01, 0x0B, 0x39, 0x2C, 0x01, 0xE8, 0x03, 0x00}
	fields, err := BrowanTBDW(frame, 100)
	require.NoError(t, err)

	require.Equal(t, 1, fields["status"])
	require.Equal(t, "open", fields["open_shut"])
	require.Equal(t, 3.6, fields["battery_voltage"])
	require.Equal(t, 25, fields["pcb_temperature"])
	require.Equal(t, 300, fields["time_since_last_event"])
	require.Equal(t, 1000, fields["event_count"])
}

func TestBrowanTBDWClosed(t *testing.T) {
	frame := []byte{0x00, 0x0B, 0x39, 0x00, 0x00, 0x01, 0x00, 0x00}
	fields, err := BrowanTBDW(frame, 100)
	require.NoError(t, err)

	require.Equal(t, 0, fields["status"])
	require.Equal(t, "closed", fields["open_shut"])
}

func TestBrowanTBDWWrongPort(t *testing.T) {
	_, err := BrowanTBDW(make([]byte, 8), 102)
	requireInvalidFrame(t, err)
}

func TestBrowanTBMS100Status(t *testing.T) {
	frame := []byte{0x01, 0x08, 0x3A, 0x05, 0x00, 0x10, 0x27, 0x00}
	fields, err := BrowanTBMS100(frame, 102)
	require.NoError(t, err)

	require.Equal(t, true, fields["occupied"])
	require.Equal(t, 3.3, fields["battery_voltage"])
	require.Equal(t, 26, fields["pcb_temperature"])
	require.Equal(t, 5, fields["time_since_last_event"])
	require.Equal(t, 10000, fields["event_count"])
}

func TestBrowanTBMS100ConfigWrongLength(t *testing.T) {
	_, err := BrowanTBMS100(make([]byte, 8), 204)
	requireInvalidFrame(t, err)
}

func TestBrowanTBWLStatus(t *testing.T) {
	// leak + interrupt, battery 3.2 V, pcb 23 C, humidity 55, env 22 C
	frame := []byte{0x11, 0x07, 0x37, 0x37, 0x36}
	fields, err := BrowanTBWL(frame, 106)
	require.NoError(t, err)

	require.Equal(t, true, fields["leak_detected"])
	require.Equal(t, true, fields["leak_interrupt"])
	require.Equal(t, 3.2, fields["battery_voltage"])
	require.Equal(t, 23, fields["pcb_temperature"])
	require.Equal(t, 55, fields["humidity"])
	require.Equal(t, false, fields["humidity_error"])
	require.Equal(t, 22, fields["environment_temperature"])
}

func TestBrowanTBWLHumidityErrorChecksRawByte(t *testing.T) {
	// 0xFF masks down to 127, but the sentinel is the raw 0x7F byte only
	fields, err := BrowanTBWL([]byte{0x00, 0x07, 0x37, 0xFF, 0x36}, 106)
	require.NoError(t, err)
	require.Equal(t, 127, fields["humidity"])
	require.Equal(t, false, fields["humidity_error"])

	fields, err = BrowanTBWL([]byte{0x00, 0x07, 0x37, 0x7F, 0x36}, 106)
	require.NoError(t, err)
	require.Equal(t, true, fields["humidity_error"])
}
