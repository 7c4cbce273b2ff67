package workload

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"crud-service/internal/config"
	"crud-service/internal/features/user"

	"go.uber.org/zap"
)

// Scheduler runs one operation per tick and sleeps a random interval between
// ticks. Only one tick is ever in flight.
type Scheduler struct {
	executor *Executor
	repo     user.UserRepository
	status   *Status
	rng      *rand.Rand
	logger   *zap.Logger

	minInterval  time.Duration
	maxInterval  time.Duration
	statsEvery   int64
	errorBackoff time.Duration
	minUsers     int64
	maxUsers     int64
}

func NewScheduler(
	cfg *config.Config,
	executor *Executor,
	repo user.UserRepository,
	status *Status,
	rng *rand.Rand,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		executor:     executor,
		repo:         repo,
		status:       status,
		rng:          rng,
		logger:       logger,
		minInterval:  cfg.MinInterval,
		maxInterval:  cfg.MaxInterval,
		statsEvery:   cfg.StatsEvery,
		errorBackoff: cfg.ErrorBackoff,
		minUsers:     cfg.MinUsers,
		maxUsers:     cfg.MaxUsers,
	}
}

// Run ticks until ctx is cancelled. A store failure never stops the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting CRUD workload",
		zap.Int64("min_users", s.minUsers),
		zap.Int64("max_users", s.maxUsers),
		zap.Duration("min_interval", s.minInterval),
		zap.Duration("max_interval", s.maxInterval),
	)

	for {
		wait := s.step(ctx)
		if ctx.Err() != nil {
			s.logger.Info("workload stopped", zap.Int64("ticks", s.status.Ticks()))
			return nil
		}

		s.status.lastWait.Store(wait.Milliseconds())
		tickInterval.Observe(wait.Seconds())
		s.logger.Debug("next operation scheduled", zap.Duration("wait", wait))

		if !sleep(ctx, wait) {
			s.logger.Info("workload stopped", zap.Int64("ticks", s.status.Ticks()))
			return nil
		}
	}
}

// step performs a single tick and returns how long to wait before the next one.
func (s *Scheduler) step(ctx context.Context) (wait time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.status.loopErrors.Add(1)
			loopErrorsTotal.Inc()
			s.logger.Error("unexpected error in workload loop",
				zap.Any("panic", r),
				zap.Duration("retry_in", s.errorBackoff),
			)
			wait = s.errorBackoff
		}
	}()

	s.executor.Perform(ctx)
	if n := s.status.tick(); n%s.statsEvery == 0 {
		s.ReportStats(ctx)
	}
	return s.NextInterval()
}

// ReportStats logs a population snapshot. Failures are logged and otherwise ignored.
func (s *Scheduler) ReportStats(ctx context.Context) {
	stats, err := CollectStats(ctx, s.repo)
	if err != nil {
		s.executor.report(Outcome{Operation: OpStats, Result: ResultFailed, Err: err})
		return
	}

	s.status.lastStats.Store(&stats)
	s.status.population.Store(stats.Total)
	populationGauge.WithLabelValues("all").Set(float64(stats.Total))
	populationGauge.WithLabelValues(user.StatusActive).Set(float64(stats.Active))
	populationGauge.WithLabelValues(user.StatusInactive).Set(float64(stats.Inactive))

	s.executor.report(Outcome{
		Operation: OpStats,
		Result:    ResultSucceeded,
		Detail:    fmt.Sprintf("stats: %d total users (%d active, %d inactive)", stats.Total, stats.Active, stats.Inactive),
	})
}

// NextInterval draws a delay uniformly from the whole milliseconds in [min, max].
// When the range holds no whole millisecond it returns min.
func (s *Scheduler) NextInterval() time.Duration {
	lo := int64((s.minInterval + time.Millisecond - 1) / time.Millisecond)
	hi := int64(s.maxInterval / time.Millisecond)
	if lo > hi {
		return s.minInterval
	}
	return time.Duration(lo+s.rng.Int64N(hi-lo+1)) * time.Millisecond
}

// sleep waits for d or until ctx ends, reporting whether the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
