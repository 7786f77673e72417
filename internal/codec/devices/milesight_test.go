package devices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMilesightAM103Telemetry(t *testing.T) {
	fields, err := MilesightAM103(mustHex(t, "01756403671b0104685c077d3105"), 85)
	require.NoError(t, err)

	require.Equal(t, 100, fields["battery_raw"])
	require.Equal(t, 39, fields["battery_pct"])
	require.Equal(t, 28.3, fields["temperature"])
	require.Equal(t, 46.0, fields["humidity"])
	require.Equal(t, 1329, fields["co2_ppm"])
}

func TestMilesightAM103WrongPort(t *testing.T) {
	_, err := MilesightAM103(mustHex(t, "017564"), 86)
	requireInvalidFrame(t, err)
}

func TestMilesightAM103EmptyPayloadMarker(t *testing.T) {
	fields, err := MilesightAM103(nil, 85)
	require.NoError(t, err)
	require.Equal(t, "not_decoded", fields["status"])
	require.Equal(t, "empty payload", fields["error"])
}

func TestMilesightAM103UnknownPairPreservedAsHex(t *testing.T) {
	// known battery TLV followed by a foreign (channel, type) pair: its
	// size is unknowable, so the remainder is kept verbatim
	fields, err := MilesightAM103(mustHex(t, "017564aabbdeadbeef"), 85)
	require.NoError(t, err)

	require.Equal(t, 100, fields["battery_raw"])
	require.Equal(t, "deadbeef", fields["unknown_AA_BB"])
}

func TestMilesightAM103TruncatedValue(t *testing.T) {
	// temperature TLV announcing 2 bytes with only 1 present
	fields, err := MilesightAM103(mustHex(t, "03671b"), 85)
	require.NoError(t, err)
	require.Contains(t, fields, "error_at_index_0")
}

func TestMilesightAM103BasicInfo(t *testing.T) {
	// 0xFF prefix, then self-sized entries: protocol v1, hw 1.0, sw 2.3
	frame := mustHex(t, "ff" + "ff0101" + "01" + "ff0902" + "0100" + "ff0a02" + "0203")
	fields, err := MilesightAM103(frame, 85)
	require.NoError(t, err)

	require.Equal(t, 1, fields["protocol_version"])
	require.Equal(t, "1.0", fields["hardware_version"])
	require.Equal(t, "2.3", fields["software_version"])
}

func TestMilesightAM103BasicInfoUnknownEntry(t *testing.T) {
	frame := mustHex(t, "ff" + "ffee02" + "cafe")
	fields, err := MilesightAM103(frame, 85)
	require.NoError(t, err)
	require.Equal(t, "cafe", fields["unknown_basic_FF_EE"])
}

func TestMilesightAM103DeviceClass(t *testing.T) {
	frame := mustHex(t, "ff" + "ff0f01" + "00")
	fields, err := MilesightAM103(frame, 85)
	require.NoError(t, err)
	require.Equal(t, "Class A", fields["device_type"])
}
