package watcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes cron's own logging to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Scheduler runs periodic rescans. Overlapping runs are skipped.
type Scheduler struct {
	spec   string
	rescan RescanFunc
	logger *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
}

// NewScheduler validates a standard five-field cron spec (or a
// descriptor such as "@every 1h") and returns a stopped scheduler.
func NewScheduler(spec string, rescan RescanFunc, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parsing rescan schedule %q: %w", spec, err)
	}
	return &Scheduler{spec: spec, rescan: rescan, logger: logger}, nil
}

// Start schedules the rescan job.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	cl := cronLogger{s.logger.Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	ctx, cancel := context.WithCancel(ctx)
	_, err := c.AddFunc(s.spec, func() {
		if err := s.rescan(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("scheduled rescan failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("scheduling rescan: %w", err)
	}

	c.Start()
	s.cron, s.cancel, s.running = c, cancel, true
	s.logger.Info("rescan scheduler started", zap.String("schedule", s.spec))
	return nil
}

// Stop cancels any running job and waits for it to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	s.logger.Info("rescan scheduler stopped")
}
