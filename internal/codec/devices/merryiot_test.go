package devices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMerryIoTCO2(t *testing.T) {
	// button press, battery 3.6 V, -2.6 C, humidity 64, 800 ppm
	frame := []byte{0x02, 0x0F, 0xE6, 0xFF, 0x40, 0x20, 0x03}
	fields, err := MerryIoTCO2(frame, 127)
	require.NoError(t, err)

	require.Equal(t, false, fields["trigger_event"])
	require.Equal(t, true, fields["button_pressed"])
	require.Equal(t, false, fields["co2_high_alarm"])
	require.Equal(t, 3.6, fields["battery_voltage"])
	require.Equal(t, -2.6, fields["temperature"])
	require.Equal(t, 64, fields["humidity"])
	require.Equal(t, 800, fields["co2_ppm"])
}

func TestMerryIoTCO2WrongPort(t *testing.T) {
	_, err := MerryIoTCO2(make([]byte, 7), 122)
	requireInvalidFrame(t, err)
}

func TestMerryIoTCO2WrongLength(t *testing.T) {
	_, err := MerryIoTCO2(make([]byte, 6), 127)
	requireInvalidFrame(t, err)

	_, err = MerryIoTCO2(make([]byte, 8), 127)
	requireInvalidFrame(t, err)
}

func TestMerryIoTBatteryBaseDiffersFromBrowan(t *testing.T) {
	// same nibble decodes to different voltages per vendor
	require.Equal(t, 2.1, merryiotBattery(0x00))
	require.Equal(t, 2.5, browanBattery(0x00))
	require.Equal(t, 3.6, merryiotBattery(0x0F))
	require.Equal(t, 4.0, browanBattery(0x0F))
}

func TestMerryIoTMS10Status(t *testing.T) {
	// occupied + tamper, battery 3.0 V, 21.5 C, humidity 50,
	// 120 s since event, 66051 events
	frame := []byte{0x05, 0x09, 0xD7, 0x00, 0x32, 0x78, 0x00, 0x03, 0x02, 0x01}
	fields, err := MerryIoTMS10(frame, 122)
	require.NoError(t, err)

	require.Equal(t, true, fields["occupied"])
	require.Equal(t, false, fields["button_pressed"])
	require.Equal(t, true, fields["tamper_detected"])
	require.Equal(t, 3.0, fields["battery_voltage"])
	require.Equal(t, 21.5, fields["temperature"])
	require.Equal(t, 50, fields["humidity"])
	require.Equal(t, 120, fields["time_since_last_event"])
	require.Equal(t, 0x010203, fields["event_count"])
}

func TestMerryIoTMS10Config(t *testing.T) {
	frame := make([]byte, 18)
	frame[1], frame[2] = 0x84, 0x03 // keepalive 900
	frame[4], frame[5] = 0x3C, 0x00 // occupied 60
	frame[7] = 30
	frame[9], frame[10] = 0x05, 0x00
	frame[17] = 0x01
	fields, err := MerryIoTMS10(frame, 204)
	require.NoError(t, err)

	require.Equal(t, 900, fields["keepalive_interval"])
	require.Equal(t, 60, fields["occupied_interval"])
	require.Equal(t, 30, fields["free_detection_time"])
	require.Equal(t, 5, fields["trigger_count"])
	require.Equal(t, true, fields["tamper_enabled"])
}

func TestMerryIoTMS10WrongLength(t *testing.T) {
	_, err := MerryIoTMS10(make([]byte, 9), 122)
	requireInvalidFrame(t, err)

	_, err = MerryIoTMS10(make([]byte, 17), 204)
	requireInvalidFrame(t, err)
}
