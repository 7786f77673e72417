package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"lorawan-transform-service/internal/logger"
)

// Scheduler drives the pipeline on a fixed interval, the poll model the
// stages are designed for. Runs are serialized: a tick is skipped while the
// previous run is still in flight, which is what keeps per-uplink decoding
// single-writer without row locking.
type Scheduler struct {
	stages   *Stages
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(stages *Stages, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		stages:   stages,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the run loop. The first run happens after one interval,
// not immediately, so startup ordering with ingestion does not matter.
func (s *Scheduler) Start() {
	logger.Info("pipeline scheduler starting", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.loop()
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	logger.Info("pipeline scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.stages.RunOnce(s.ctx); err != nil {
				logger.Error("pipeline run finished with errors", zap.Error(err))
			}
		case <-s.ctx.Done():
			return
		}
	}
}
