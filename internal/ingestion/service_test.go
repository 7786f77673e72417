package ingestion

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"lorawan-transform-service/internal/domain/enrichment"
	"lorawan-transform-service/internal/domain/uplink"
)

type capturingUplinkRepo struct {
	uplink.Repository
	created []*uplink.Uplink
}

func (c *capturingUplinkRepo) Create(_ context.Context, up *uplink.Uplink) error {
	c.created = append(c.created, up)
	return nil
}

type capturingLogRepo struct {
	enrichment.Repository
	appended []struct {
		id           uuid.UUID
		step, status string
	}
}

func (c *capturingLogRepo) Append(_ context.Context, id uuid.UUID, step, status, detail string) error {
	c.appended = append(c.appended, struct {
		id           uuid.UUID
		step, status string
	}{id, step, status})
	return nil
}

func TestServiceIngestOpensTrail(t *testing.T) {
	uplinks := &capturingUplinkRepo{}
	logs := &capturingLogRepo{}
	svc := NewService(uplinks, logs)

	body := []byte(`{"deviceInfo": {"devEui": "a1b2c3d4e5f60708"}, "fPort": 103, "data": "CPoLSg=="}`)
	up, err := svc.Ingest(context.Background(), "chirpstack", body)
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, up.UplinkUUID)
	require.False(t, up.ReceivedAt.IsZero())
	require.Len(t, uplinks.created, 1)
	require.Len(t, logs.appended, 1)
	require.Equal(t, up.UplinkUUID, logs.appended[0].id)
	require.Equal(t, enrichment.StepIngestionReceived, logs.appended[0].step)
	require.Equal(t, enrichment.StatusNew, logs.appended[0].status)
}

func TestServiceIngestRejectsMissingDevEUI(t *testing.T) {
	uplinks := &capturingUplinkRepo{}
	logs := &capturingLogRepo{}
	svc := NewService(uplinks, logs)

	_, err := svc.Ingest(context.Background(), "chirpstack", []byte(`{"fPort": 1, "data": "AA=="}`))
	require.ErrorIs(t, err, ErrMissingDevEUI)
	require.Empty(t, uplinks.created)
	require.Empty(t, logs.appended)
}

func TestServiceIngestPropagatesParseError(t *testing.T) {
	svc := NewService(&capturingUplinkRepo{}, &capturingLogRepo{})

	_, err := svc.Ingest(context.Background(), "chirpstack", []byte(`nope`))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
