package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"lorawan-transform-service/internal/logger"
	pkgmqtt "lorawan-transform-service/pkg/mqtt"
)

// MQTTIngestConfig describes the broker connection and the uplink topic.
type MQTTIngestConfig struct {
	ClientConfig *pkgmqtt.Config
	UplinkTopic  string
	QoS          byte
}

// MQTTIngestClient subscribes to a ChirpStack uplink event topic and feeds
// every message through the same ingest path the HTTP endpoints use.
type MQTTIngestClient struct {
	cfg     *MQTTIngestConfig
	client  *pkgmqtt.Client
	service *Service

	mu      sync.Mutex
	started bool
}

func NewMQTTIngestClient(cfg *MQTTIngestConfig, service *Service) (*MQTTIngestClient, error) {
	if cfg == nil || cfg.ClientConfig == nil {
		return nil, errors.New("mqtt ingest config is not configured")
	}
	if cfg.UplinkTopic == "" {
		return nil, errors.New("uplink topic is required")
	}
	if service == nil {
		return nil, errors.New("ingest service is required")
	}

	return &MQTTIngestClient{
		cfg:     cfg,
		client:  pkgmqtt.NewClient(cfg.ClientConfig),
		service: service,
	}, nil
}

// Start establishes the MQTT connection and subscribes to the uplink topic.
func (c *MQTTIngestClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}

	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	if err := c.client.Subscribe(c.cfg.UplinkTopic, c.cfg.QoS, c.handleUplink); err != nil {
		c.client.Disconnect()
		return fmt.Errorf("subscribe failed for topic %s: %w", c.cfg.UplinkTopic, err)
	}

	c.started = true
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (c *MQTTIngestClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return
	}

	if err := c.client.Unsubscribe(c.cfg.UplinkTopic); err != nil {
		logger.Warn("mqtt unsubscribe failed", zap.String("topic", c.cfg.UplinkTopic), zap.Error(err))
	}
	c.client.Disconnect()
	c.started = false
}

func (c *MQTTIngestClient) handleUplink(topic string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	up, err := c.service.Ingest(ctx, CarrierChirpStack, payload)
	if err != nil {
		logger.Error("mqtt uplink rejected", zap.String("topic", topic), zap.Error(err))
		return
	}

	logger.Info("mqtt uplink accepted",
		zap.String("topic", topic),
		zap.String("uplink_uuid", up.UplinkUUID.String()),
		zap.String("deveui", up.DevEUI),
	)
}
