// Package analytics publishes decoded readings to downstream consumers over
// MQTT.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lorawan-transform-service/internal/domain/uplink"
	pkgmqtt "lorawan-transform-service/pkg/mqtt"
)

// MQTTForwarder publishes one JSON document per decoded reading to a fixed
// topic. It satisfies the pipeline's forwarder contract.
type MQTTForwarder struct {
	client *pkgmqtt.Client
	topic  string
	qos    byte
}

func NewMQTTForwarder(client *pkgmqtt.Client, topic string, qos byte) (*MQTTForwarder, error) {
	if client == nil {
		return nil, errors.New("mqtt client is required")
	}
	if topic == "" {
		return nil, errors.New("reading topic is required")
	}
	return &MQTTForwarder{client: client, topic: topic, qos: qos}, nil
}

type readingMessage struct {
	UplinkUUID string         `json:"uplink_uuid"`
	DevEUI     string         `json:"deveui"`
	Fields     map[string]any `json:"fields"`
	DecodedAt  time.Time      `json:"decoded_at"`
}

// Forward publishes the reading. Failures are returned for the pipeline to
// record against the uplink's forwarding step.
func (f *MQTTForwarder) Forward(ctx context.Context, r *uplink.Reading) error {
	if !f.client.IsConnected() {
		return errors.New("mqtt client is not connected")
	}

	body, err := json.Marshal(readingMessage{
		UplinkUUID: r.UplinkUUID.String(),
		DevEUI:     r.DevEUI,
		Fields:     r.Fields,
		DecodedAt:  r.DecodedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	if err := f.client.Publish(f.topic, f.qos, false, body); err != nil {
		return fmt.Errorf("publish reading to %s: %w", f.topic, err)
	}
	return nil
}
