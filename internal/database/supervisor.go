package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"crud-service/internal/config"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// ErrConnection is returned once every startup attempt has failed.
var ErrConnection = errors.New("store connection failed")

type ConnState string

const (
	StateConnecting ConnState = "CONNECTING"
	StateReady      ConnState = "READY"
)

// Supervisor establishes the store connection once at startup. It does not
// watch the connection afterwards.
type Supervisor struct {
	attempts int
	delay    time.Duration
	logger   *zap.Logger

	state   atomic.Value
	attempt atomic.Int64
}

func NewSupervisor(cfg *config.Config, logger *zap.Logger) *Supervisor {
	s := &Supervisor{
		attempts: cfg.ConnectAttempts,
		delay:    cfg.ConnectDelay,
		logger:   logger,
	}
	s.state.Store(StateConnecting)
	return s
}

func (s *Supervisor) State() ConnState {
	return s.state.Load().(ConnState)
}

// Attempts reports how many connection attempts have been made so far.
func (s *Supervisor) Attempts() int64 {
	return s.attempt.Load()
}

// Establish calls connect until it succeeds, the attempt budget is spent, or ctx ends.
// connect must perform its own liveness probe.
func (s *Supervisor) Establish(ctx context.Context, connect func(context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(s.attempts-1), retry.NewConstant(s.delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		n := s.attempt.Add(1)
		if err := connect(ctx); err != nil {
			s.logger.Warn("store connection attempt failed",
				zap.Int64("attempt", n),
				zap.Int("max_attempts", s.attempts),
				zap.Duration("retry_in", s.delay),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w after %d attempts: %w", ErrConnection, s.attempt.Load(), err)
	}

	s.state.Store(StateReady)
	s.logger.Info("store connection ready", zap.Int64("attempts", s.attempt.Load()))
	return nil
}
