package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseActility(t *testing.T) {
	body := []byte(`{
		"DevEUI_uplink": {
			"DevEUI": "70b3d580a0109f10",
			"payload_hex": "08fa0b4a",
			"Time": "2025-07-22T16:55:00.123Z",
			"FPort": 103,
			"LrrRSSI": -107.0,
			"LrrSNR": 3.5,
			"BaseStationData": {"name": "station-7276FF0039030001"}
		}
	}`)

	up, err := Parse("actility", body)
	require.NoError(t, err)

	require.Equal(t, "70B3D580A0109F10", up.DevEUI)
	require.Equal(t, []byte{0x08, 0xFA, 0x0B, 0x4A}, up.Payload)
	require.Equal(t, 103, *up.FPort)
	require.Equal(t, "actility", up.Source)
	require.Equal(t, -107.0, *up.RSSI)
	require.Equal(t, 3.5, *up.SNR)
	// the EUI is the trailing 16 characters of the base station name
	require.Equal(t, "7276FF0039030001", *up.GatewayEUI)
	require.Equal(t, time.Date(2025, 7, 22, 16, 55, 0, 123000000, time.UTC), up.ReceivedAt)
	require.NotNil(t, up.Metadata["DevEUI_uplink"])
}

func TestParseChirpStack(t *testing.T) {
	body := []byte(`{
		"deviceInfo": {"devEui": "a1b2c3d4e5f60708"},
		"time": "2025-10-02T18:00:00Z",
		"fPort": 85,
		"data": "AXVkA2cbAQRoXAd9MQU=",
		"rxInfo": [{"gatewayId": "7276ff0039030001", "rssi": -95, "snr": 7.25}]
	}`)

	up, err := Parse("chirpstack", body)
	require.NoError(t, err)

	require.Equal(t, "A1B2C3D4E5F60708", up.DevEUI)
	// base64 "AXVkA2cbAQRoXAd9MQU=" is the AM103 telemetry frame
	require.Equal(t, []byte{0x01, 0x75, 0x64, 0x03, 0x67, 0x1B, 0x01, 0x04, 0x68, 0x5C, 0x07, 0x7D, 0x31, 0x05}, up.Payload)
	require.Equal(t, 85, *up.FPort)
	require.Equal(t, "7276ff0039030001", *up.GatewayEUI)
	require.Equal(t, -95.0, *up.RSSI)
	require.Equal(t, 7.25, *up.SNR)
}

func TestParseNetmoreListWrapped(t *testing.T) {
	body := []byte(`[{
		"devEui": "0011223344556677",
		"payload": "010281",
		"timestamp": "2025-07-21T21:35:00Z",
		"fPort": "46",
		"rssi": "-101",
		"snr": "-2.5",
		"gatewayIdentifier": "573"
	}]`)

	up, err := Parse("netmore", body)
	require.NoError(t, err)

	require.Equal(t, "0011223344556677", up.DevEUI)
	require.Equal(t, []byte{0x01, 0x02, 0x81}, up.Payload)
	require.Equal(t, 46, *up.FPort)
	require.Equal(t, -101.0, *up.RSSI)
	require.Equal(t, -2.5, *up.SNR)
	require.Equal(t, "NETMORE-573", *up.GatewayEUI)
}

func TestParseNetmoreBareObject(t *testing.T) {
	body := []byte(`{"devEui": "0011223344556677", "payload": "0102", "fPort": 2}`)

	up, err := Parse("netmore", body)
	require.NoError(t, err)
	require.Equal(t, 2, *up.FPort)
	require.Nil(t, up.GatewayEUI)
}

func TestParseNetmoreRejectsBatch(t *testing.T) {
	body := []byte(`[{"devEui": "aa"}, {"devEui": "bb"}]`)

	_, err := Parse("netmore", body)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "netmore", parseErr.Carrier)
}

func TestParseTTI(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"dev_eui": "70b3d5e75e014b08"},
		"received_at": "2025-08-05T11:25:00Z",
		"uplink_message": {
			"f_port": 102,
			"frm_payload": "CPoLSg==",
			"received_at": "2025-08-05T11:25:01Z",
			"rx_metadata": [{"gateway_ids": {"eui": "7276FF0039030001"}, "rssi": -88, "snr": 9.5}]
		},
		"uplink_normalized": {"f_port": 1, "frm_payload": "AA=="}
	}`)

	up, err := Parse("tti", body)
	require.NoError(t, err)

	// uplink_message wins over uplink_normalized
	require.Equal(t, "70B3D5E75E014B08", up.DevEUI)
	require.Equal(t, []byte{0x08, 0xFA, 0x0B, 0x4A}, up.Payload)
	require.Equal(t, 102, *up.FPort)
	require.Equal(t, "7276FF0039030001", *up.GatewayEUI)
	require.Equal(t, time.Date(2025, 8, 5, 11, 25, 1, 0, time.UTC), up.ReceivedAt)
}

func TestParseTTINormalizedFallback(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"dev_eui": "70b3d5e75e014b08"},
		"received_at": "2025-08-05T11:25:00Z",
		"uplink_normalized": {"f_port": 1, "frm_payload": "AA=="}
	}`)

	up, err := Parse("tti", body)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, up.Payload)
	require.Equal(t, 1, *up.FPort)
	require.Equal(t, time.Date(2025, 8, 5, 11, 25, 0, 0, time.UTC), up.ReceivedAt)
}

func TestParseUnknownCarrier(t *testing.T) {
	_, err := Parse("everynet", []byte(`{}`))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse("chirpstack", []byte(`{not json`))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "chirpstack", parseErr.Carrier)
}

func TestParseBadPayloadEncodingYieldsNilPayload(t *testing.T) {
	// malformed hex is tolerated at ingest and fails at decode time instead
	body := []byte(`{"DevEUI_uplink": {"DevEUI": "aa", "payload_hex": "zz"}}`)
	up, err := Parse("actility", body)
	require.NoError(t, err)
	require.Nil(t, up.Payload)

	body = []byte(`{"deviceInfo": {"devEui": "aa"}, "data": "!!!not base64!!!"}`)
	up, err = Parse("chirpstack", body)
	require.NoError(t, err)
	require.Nil(t, up.Payload)
}

func TestParseMissingTimestampDefaultsToNow(t *testing.T) {
	before := time.Now().UTC()
	up, err := Parse("chirpstack", []byte(`{"deviceInfo": {"devEui": "aa"}, "data": "AA=="}`))
	require.NoError(t, err)
	require.False(t, up.ReceivedAt.Before(before))
}
