package devices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWinextAN102CHeartbeat(t *testing.T) {
	fields, err := WinextAN102C(mustHex(t, "010100080e003b0000001f"), 46)
	require.NoError(t, err)

	require.Equal(t, "heartbeat", fields["frame_type"])
	require.Equal(t, 0.0, fields["smoke_concentration"])
	require.Equal(t, 20.62, fields["temperature"])
	require.Equal(t, 0, fields["humidity"])
	require.Equal(t, 59, fields["battery_percent"])
	require.Equal(t, 0, fields["pollution"])
	require.Equal(t, 3.1, fields["voltage"])
	require.Equal(t, false, fields["alarm_smoke"])
	require.Equal(t, false, fields["alarm_low_battery"])
	require.Equal(t, false, fields["fault_smoke_sensor"])
}

func TestWinextAN102CNegativeTemperature(t *testing.T) {
	// be16 two's complement: 0xFBC2 = -1086 -> -10.86 C
	fields, err := WinextAN102C(mustHex(t, "010100fbc2003b0000001f"), 46)
	require.NoError(t, err)
	require.Equal(t, -10.86, fields["temperature"])
}

func TestWinextAN102CSelfTest(t *testing.T) {
	fields, err := WinextAN102C(mustHex(t, "010281"), 46)
	require.NoError(t, err)

	require.Equal(t, "self_test", fields["frame_type"])
	require.Equal(t, true, fields["self_test_active"])
	require.Equal(t, true, fields["self_test_smoke_sensor_fail"])
	require.Equal(t, false, fields["self_test_temp_rh_sensor_fail"])
}

func TestWinextAN102CAlarm(t *testing.T) {
	// smoke alarm set, smoke 1.20, 25.00 C, humidity 40, battery 90
	fields, err := WinextAN102C(mustHex(t, "010301007809c4285a00"), 46)
	require.NoError(t, err)

	require.Equal(t, "alarm", fields["frame_type"])
	require.Equal(t, true, fields["alarm_smoke"])
	require.Equal(t, false, fields["alarm_temperature"])
	require.Equal(t, 1.2, fields["smoke_concentration"])
	require.Equal(t, 25.0, fields["temperature"])
	require.Equal(t, 40, fields["humidity"])
	require.Equal(t, 90, fields["battery_percent"])
	require.Equal(t, 0, fields["pollution"])
}

func TestWinextAN102CWrongSensorType(t *testing.T) {
	_, err := WinextAN102C(mustHex(t, "0201"), 46)
	requireInvalidFrame(t, err)
}

func TestWinextAN102CUnknownFrameType(t *testing.T) {
	_, err := WinextAN102C(mustHex(t, "0109"), 46)
	requireInvalidFrame(t, err)
}

func TestWinextAN102CWrongPort(t *testing.T) {
	_, err := WinextAN102C(mustHex(t, "010281"), 47)
	requireInvalidFrame(t, err)
}

func TestWinextAN102CHeartbeatWrongLength(t *testing.T) {
	_, err := WinextAN102C(mustHex(t, "010100080e003b00"), 46)
	requireInvalidFrame(t, err)
}
