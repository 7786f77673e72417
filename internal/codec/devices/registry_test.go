package devices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNetvoxR716ButtonPress(t *testing.T) {
	fields, err := NetvoxR716(make([]byte, 11), 6)
	require.NoError(t, err)

	require.Equal(t, true, fields["button_pressed"])
	require.Equal(t, true, fields["payload_valid"])
	require.Equal(t, 11, fields["raw_length"])
}

func TestNetvoxR716UnrecognizedFrameKeptAsRaw(t *testing.T) {
	fields, err := NetvoxR716(mustHex(t, "0102030405"), 6)
	require.NoError(t, err)

	require.Equal(t, false, fields["button_pressed"])
	require.Equal(t, false, fields["payload_valid"])
	require.Equal(t, "0102030405", fields["raw_hex"])
	require.Equal(t, 5, fields["raw_length"])
}

func TestNetvoxR716WrongPort(t *testing.T) {
	_, err := NetvoxR716(make([]byte, 11), 7)
	requireInvalidFrame(t, err)
}

func TestATIMACWLW8(t *testing.T) {
	cases := map[byte]string{
		0x00: "Waiting for network",
		0x01: "No signal",
		0x02: "Low signal",
		0x03: "Good signal",
		0x04: "Excellent signal",
	}
	for status, description := range cases {
		fields, err := ATIMACWLW8([]byte{status}, 2)
		require.NoError(t, err)
		require.Equal(t, int(status), fields["status"])
		require.Equal(t, description, fields["description"])
	}

	fields, err := ATIMACWLW8([]byte{0x09}, 2)
	require.NoError(t, err)
	require.Equal(t, "Unknown status: 9", fields["description"])
}

func TestATIMACWLW8WrongShape(t *testing.T) {
	_, err := ATIMACWLW8([]byte{0x00, 0x01}, 2)
	requireInvalidFrame(t, err)

	_, err = ATIMACWLW8([]byte{0x00}, 3)
	requireInvalidFrame(t, err)
}

func TestIMBuildingsPC1(t *testing.T) {
	frame := mustHex(t, "0206" + "aabbccdd00112233" + "01" + "0cf3" + "0005" + "0003" + "a5" + "0120" + "0115" + "07")
	fields, err := IMBuildingsPC1(frame, 10)
	require.NoError(t, err)

	require.Equal(t, "aabbccdd00112233", fields["dev_eui"])
	require.Equal(t, 1, fields["status_byte"])
	require.Equal(t, 3.315, fields["battery_voltage"])
	require.Equal(t, 5, fields["counter_a"])
	require.Equal(t, 3, fields["counter_b"])
	require.Equal(t, "10100101", fields["status_flags_raw"])
	require.Equal(t, 0x0120, fields["total_counter_a"])
	require.Equal(t, 0x0115, fields["total_counter_b"])
	require.Equal(t, 7, fields["payload_counter"])
}

func TestIMBuildingsPC1IgnoresPort(t *testing.T) {
	frame := make([]byte, 23)
	frame[0], frame[1] = 0x02, 0x06

	for _, port := range []int{1, 10, 200} {
		_, err := IMBuildingsPC1(frame, port)
		require.NoError(t, err, "port %d", port)
	}
}

func TestIMBuildingsPC1WrongShape(t *testing.T) {
	_, err := IMBuildingsPC1(make([]byte, 22), 10)
	requireInvalidFrame(t, err)

	frame := make([]byte, 23)
	frame[0], frame[1] = 0x02, 0x07
	_, err = IMBuildingsPC1(frame, 10)
	requireInvalidFrame(t, err)
}

func TestNewRegistryCoversCatalog(t *testing.T) {
	r := NewRegistry()

	for _, binding := range Catalog() {
		_, err := r.Resolve(binding.Codec)
		require.NoError(t, err, "catalog codec %q must be registered", binding.Codec)
	}
}

func TestNewRegistryAliasesTBDW(t *testing.T) {
	r := NewRegistry()

	frame := []byte{0x01, 0x0B, 0x39, 0x2C, 0x01, 0xE8, 0x03, 0x00}
	for _, name := range []string{"browan_tbdw", "browan_tbdw100"} {
		fn, err := r.Resolve(name)
		require.NoError(t, err)
		fields, err := fn(frame, 100)
		require.NoError(t, err)
		require.Equal(t, "open", fields["open_shut"])
	}
}
