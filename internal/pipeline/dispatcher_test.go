package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"lorawan-transform-service/internal/codec"
	"lorawan-transform-service/internal/codec/devices"
	"lorawan-transform-service/internal/domain/uplink"
)

func intPtr(i int) *int { return &i }

func testUplink(payload []byte, port *int) *uplink.Uplink {
	return &uplink.Uplink{
		UplinkUUID: uuid.New(),
		DevEUI:     "0011223344556677",
		Payload:    payload,
		FPort:      port,
	}
}

func TestSafeUnpackSuccess(t *testing.T) {
	reg := devices.NewRegistry()
	up := testUplink([]byte{0x08, 0xFA, 0x0B, 0x4A}, intPtr(103))

	fields, derr := SafeUnpack(reg, "browan_tbhh100", up)
	require.Nil(t, derr)
	require.Equal(t, 3.5, fields["battery_voltage"])
}

func TestSafeUnpackHexTextPayload(t *testing.T) {
	// hex text delivered as the raw bytes is normalized before decoding
	reg := devices.NewRegistry()
	up := testUplink([]byte("08fa0b4a"), intPtr(103))

	fields, derr := SafeUnpack(reg, "browan_tbhh100", up)
	require.Nil(t, derr)
	require.Equal(t, 74, fields["humidity"])
}

func TestSafeUnpackMissingPayload(t *testing.T) {
	reg := devices.NewRegistry()
	up := testUplink(nil, intPtr(103))

	fields, derr := SafeUnpack(reg, "browan_tbhh100", up)
	require.Nil(t, fields)
	require.NotNil(t, derr)
	require.ErrorIs(t, derr, codec.ErrMissingPayload)
	require.Equal(t, up.DevEUI, derr.DevEUI)
}

func TestSafeUnpackMissingPort(t *testing.T) {
	reg := devices.NewRegistry()
	up := testUplink([]byte{0x01}, nil)

	_, derr := SafeUnpack(reg, "browan_tbhh100", up)
	require.NotNil(t, derr)
	require.ErrorIs(t, derr, codec.ErrMissingPort)
	require.Nil(t, derr.Port)
}

func TestSafeUnpackUnknownCodec(t *testing.T) {
	reg := devices.NewRegistry()
	up := testUplink([]byte{0x01}, intPtr(2))

	_, derr := SafeUnpack(reg, "no_such_model", up)
	require.NotNil(t, derr)

	var notFound *codec.CodecNotFoundError
	require.ErrorAs(t, derr, &notFound)
	require.Equal(t, "no_such_model", notFound.Name)
}

func TestSafeUnpackInvalidFrame(t *testing.T) {
	reg := devices.NewRegistry()
	up := testUplink([]byte{0x01, 0x02}, intPtr(99)) // wrong port for tbhh100

	_, derr := SafeUnpack(reg, "browan_tbhh100", up)
	require.NotNil(t, derr)

	var invalid *codec.InvalidFrameError
	require.ErrorAs(t, derr, &invalid)
}

func TestSafeUnpackRecoversPanic(t *testing.T) {
	reg := codec.NewRegistry()
	reg.Register("panicky", func(b []byte, port int) (codec.Fields, error) {
		panic("boom")
	})
	up := testUplink([]byte{0x01}, intPtr(1))

	fields, derr := SafeUnpack(reg, "panicky", up)
	require.Nil(t, fields)
	require.NotNil(t, derr)
	require.Contains(t, derr.Cause.Error(), "codec panic")
	require.Contains(t, derr.Cause.Error(), "boom")
}

func TestDecodeErrorMessage(t *testing.T) {
	derr := &DecodeError{DevEUI: "AA", Port: intPtr(2), Cause: codec.ErrMissingPayload}
	require.Contains(t, derr.Error(), "DevEUI=AA")
	require.Contains(t, derr.Error(), "Port=2")

	derr = &DecodeError{DevEUI: "AA", Cause: codec.ErrMissingPort}
	require.Contains(t, derr.Error(), "Port=<nil>")
}
