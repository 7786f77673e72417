package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lorawan-transform-service/internal/codec"
	"lorawan-transform-service/internal/domain/device"
	"lorawan-transform-service/internal/domain/enrichment"
	"lorawan-transform-service/internal/domain/uplink"
	"lorawan-transform-service/internal/logger"
)

// ReadingForwarder pushes a decoded reading to a downstream consumer.
type ReadingForwarder interface {
	Forward(ctx context.Context, r *uplink.Reading) error
}

// Stages holds the batch jobs of the enrichment pipeline. Each stage selects
// a bounded page of uplinks by their latest log state, does its work, and
// appends the next log entry; stages never talk to each other directly.
type Stages struct {
	uplinks   uplink.Repository
	devices   device.Repository
	logs      enrichment.Repository
	registry  *codec.Registry
	forwarder ReadingForwarder
	pageSize  int
	metrics   *MetricsTracker
}

// NewStages wires the pipeline. forwarder may be nil, which disables the
// analytics forwarding stage and leaves unpacking:success as the terminal
// state.
func NewStages(
	uplinks uplink.Repository,
	devices device.Repository,
	logs enrichment.Repository,
	registry *codec.Registry,
	forwarder ReadingForwarder,
	pageSize int,
) *Stages {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Stages{
		uplinks:   uplinks,
		devices:   devices,
		logs:      logs,
		registry:  registry,
		forwarder: forwarder,
		pageSize:  pageSize,
		metrics:   NewMetricsTracker(),
	}
}

// Metrics exposes the tracker for status reporting.
func (s *Stages) Metrics() *MetricsTracker {
	return s.metrics
}

// RunOnce executes every stage in pipeline order. A failing stage does not
// stop the later ones; errors are joined and returned for logging.
func (s *Stages) RunOnce(ctx context.Context) error {
	start := time.Now()

	err := errors.Join(
		s.EnrichNew(ctx),
		s.RetryPending(ctx),
		s.MarkReady(ctx),
		s.UnpackReady(ctx),
		s.RetryFailed(ctx),
		s.ForwardReadings(ctx),
	)

	s.metrics.Update(func(m *RunMetrics) {
		m.RunsCompleted++
		m.LastRunAt = start
		m.LastRunDuration = time.Since(start)
	})

	return err
}

// EnrichNew resolves new uplinks against the device context table. Known
// devices with a model move to context_enrichment:success; everything else
// is parked at context_enrichment:pending with the DevEUI registered as an
// orphan, waiting for an operator to assign a model out of band.
func (s *Stages) EnrichNew(ctx context.Context) error {
	ups, err := s.uplinks.FindByLatestState(ctx, enrichment.StepIngestionReceived, enrichment.StatusNew, s.pageSize)
	if err != nil {
		return fmt.Errorf("enrich: selecting new uplinks: %w", err)
	}

	for _, up := range ups {
		if up.DevEUI == "" {
			s.append(ctx, up, enrichment.StepContextEnrichment, enrichment.StatusPending, "uplink has no deveui")
			continue
		}

		dctx, err := s.devices.GetContext(ctx, up.DevEUI)
		switch {
		case errors.Is(err, device.ErrDeviceNotFound):
			if err := s.devices.EnsureOrphan(ctx, up.DevEUI, up.GatewayEUI); err != nil {
				logger.Error("failed to insert orphan device context",
					zap.String("deveui", up.DevEUI), zap.Error(err))
				continue
			}
			s.append(ctx, up, enrichment.StepContextEnrichment, enrichment.StatusPending,
				"no matching device context found, orphan inserted")
			s.metrics.Update(func(m *RunMetrics) { m.UplinksOrphaned++ })

		case err != nil:
			logger.Error("device context lookup failed",
				zap.String("deveui", up.DevEUI), zap.Error(err))

		case dctx.IsOrphan():
			s.append(ctx, up, enrichment.StepContextEnrichment, enrichment.StatusPending,
				"device context has no model assigned")
			s.metrics.Update(func(m *RunMetrics) { m.UplinksOrphaned++ })

		default:
			if up.GatewayEUI != nil {
				if err := s.devices.UpdateLastGateway(ctx, up.DevEUI, *up.GatewayEUI); err != nil {
					logger.Warn("failed to update last gateway",
						zap.String("deveui", up.DevEUI), zap.Error(err))
				}
			}
			s.append(ctx, up, enrichment.StepContextEnrichment, enrichment.StatusSuccess,
				"initial enrichment complete")
			s.metrics.Update(func(m *RunMetrics) { m.UplinksEnriched++ })
		}
	}

	return nil
}

// RetryPending re-examines uplinks parked at context_enrichment:pending. An
// operator assigning a model to the device is what unparks them: once the
// context carries a binding, the uplink is promoted to
// context_enrichment:success and flows into the unpacking queue. Orphans and
// unresolvable DevEUIs stay parked.
func (s *Stages) RetryPending(ctx context.Context) error {
	ups, err := s.uplinks.FindByLatestState(ctx, enrichment.StepContextEnrichment, enrichment.StatusPending, s.pageSize)
	if err != nil {
		return fmt.Errorf("retry pending: selecting parked uplinks: %w", err)
	}

	for _, up := range ups {
		if up.DevEUI == "" {
			continue
		}

		dctx, err := s.devices.GetContext(ctx, up.DevEUI)
		if err != nil {
			if !errors.Is(err, device.ErrDeviceNotFound) {
				logger.Error("device context lookup failed",
					zap.String("deveui", up.DevEUI), zap.Error(err))
			}
			continue
		}
		if dctx.IsOrphan() {
			continue
		}

		s.append(ctx, up, enrichment.StepContextEnrichment, enrichment.StatusSuccess,
			"model assigned, enrichment completed on retry")
		s.metrics.Update(func(m *RunMetrics) { m.UplinksUnparked++ })
	}

	return nil
}

// MarkReady promotes successfully enriched uplinks to the unpacking queue.
func (s *Stages) MarkReady(ctx context.Context) error {
	ups, err := s.uplinks.FindByLatestState(ctx, enrichment.StepContextEnrichment, enrichment.StatusSuccess, s.pageSize)
	if err != nil {
		return fmt.Errorf("mark ready: selecting enriched uplinks: %w", err)
	}

	for _, up := range ups {
		s.append(ctx, up, enrichment.StepUnpackingInit, enrichment.StatusReady,
			"enrichment complete, ready to unpack")
		s.metrics.Update(func(m *RunMetrics) { m.UplinksMarked++ })
	}

	return nil
}

// UnpackReady decodes every uplink queued for unpacking.
func (s *Stages) UnpackReady(ctx context.Context) error {
	ups, err := s.uplinks.FindByLatestState(ctx, enrichment.StepUnpackingInit, enrichment.StatusReady, s.pageSize)
	if err != nil {
		return fmt.Errorf("unpack: selecting ready uplinks: %w", err)
	}

	for _, up := range ups {
		if s.decodeOne(ctx, up, "payload unpacked by %q") {
			s.metrics.Update(func(m *RunMetrics) { m.UplinksUnpacked++ })
		} else {
			s.metrics.Update(func(m *RunMetrics) { m.UplinksFailed++ })
		}
	}

	return nil
}

// RetryFailed re-runs the decode for uplinks stuck at unpacking:fail. The
// codec name is re-resolved from the device's current binding, so assigning
// the right model after the fact heals old failures without re-enrichment.
func (s *Stages) RetryFailed(ctx context.Context) error {
	ups, err := s.uplinks.FindByLatestState(ctx, enrichment.StepUnpacking, enrichment.StatusFail, s.pageSize)
	if err != nil {
		return fmt.Errorf("retry: selecting failed uplinks: %w", err)
	}

	for _, up := range ups {
		if s.decodeOne(ctx, up, "retry unpacked by %q") {
			s.metrics.Update(func(m *RunMetrics) { m.UplinksRetried++ })
		} else {
			s.metrics.Update(func(m *RunMetrics) { m.UplinksFailed++ })
		}
	}

	return nil
}

// ForwardReadings publishes decoded readings downstream and records the
// analytics_forwarding step. Skipped entirely when no forwarder is wired.
func (s *Stages) ForwardReadings(ctx context.Context) error {
	if s.forwarder == nil {
		return nil
	}

	ups, err := s.uplinks.FindByLatestState(ctx, enrichment.StepUnpacking, enrichment.StatusSuccess, s.pageSize)
	if err != nil {
		return fmt.Errorf("forward: selecting unpacked uplinks: %w", err)
	}

	for _, up := range ups {
		reading, err := s.uplinks.GetReading(ctx, up.UplinkUUID)
		if err != nil {
			s.append(ctx, up, enrichment.StepAnalyticsForwarding, enrichment.StatusFail,
				fmt.Sprintf("reading lookup failed: %v", err))
			s.metrics.Update(func(m *RunMetrics) { m.ForwardsFailed++ })
			continue
		}

		if err := s.forwarder.Forward(ctx, reading); err != nil {
			s.append(ctx, up, enrichment.StepAnalyticsForwarding, enrichment.StatusFail,
				fmt.Sprintf("forward failed: %v", err))
			s.metrics.Update(func(m *RunMetrics) { m.ForwardsFailed++ })
			continue
		}

		s.append(ctx, up, enrichment.StepAnalyticsForwarding, enrichment.StatusSuccess,
			"reading forwarded")
		s.metrics.Update(func(m *RunMetrics) { m.ReadingsForwarded++ })
	}

	return nil
}

// decodeOne runs the dispatcher for one uplink and records the outcome.
// Returns true on decode success. A failure stores the not_decoded marker
// and logs unpacking:fail with the cause plus the frame coordinates, the
// detail operators diagnose from.
func (s *Stages) decodeOne(ctx context.Context, up *uplink.Uplink, successDetail string) bool {
	codecName, err := s.devices.CodecName(ctx, up.DevEUI)
	if err != nil {
		s.append(ctx, up, enrichment.StepUnpacking, enrichment.StatusFail,
			fmt.Sprintf("%v | DevEUI=%s, Port=%s, Len=%d", err, up.DevEUI, fmtPort(up.FPort), len(up.Payload)))
		return false
	}

	fields, derr := SafeUnpack(s.registry, codecName, up)
	if derr != nil {
		s.saveReading(ctx, up, uplink.NotDecoded())
		s.append(ctx, up, enrichment.StepUnpacking, enrichment.StatusFail,
			fmt.Sprintf("%v | DevEUI=%s, Port=%s, Len=%d", derr.Cause, up.DevEUI, fmtPort(up.FPort), len(up.Payload)))
		return false
	}

	s.saveReading(ctx, up, fields)
	s.append(ctx, up, enrichment.StepUnpacking, enrichment.StatusSuccess,
		fmt.Sprintf(successDetail, codecName))
	return true
}

func (s *Stages) saveReading(ctx context.Context, up *uplink.Uplink, fields codec.Fields) {
	r := &uplink.Reading{
		UplinkUUID: up.UplinkUUID,
		DevEUI:     up.DevEUI,
		Fields:     fields,
		DecodedAt:  time.Now().UTC(),
	}
	if err := s.uplinks.SaveReading(ctx, r); err != nil {
		logger.Error("failed to save reading",
			zap.String("uplink_uuid", up.UplinkUUID.String()), zap.Error(err))
	}
}

func (s *Stages) append(ctx context.Context, up *uplink.Uplink, step, status, detail string) {
	if err := s.logs.Append(ctx, up.UplinkUUID, step, status, detail); err != nil {
		logger.Error("failed to append enrichment log",
			zap.String("uplink_uuid", up.UplinkUUID.String()),
			zap.String("step", step),
			zap.String("status", status),
			zap.Error(err))
	}
}

func fmtPort(port *int) string {
	if port == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d", *port)
}
