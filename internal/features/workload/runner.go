package workload

import (
	"context"
	"errors"
	"sync"
	"time"

	"crud-service/internal/database"
	"crud-service/internal/features/user"

	"go.uber.org/zap"
)

const storeCloseTimeout = 5 * time.Second

// Runner owns the background goroutine that connects the store and then
// drives the scheduler. onFatal is called when the store cannot be reached.
type Runner struct {
	supervisor *database.Supervisor
	store      user.Store
	scheduler  *Scheduler
	logger     *zap.Logger
	onFatal    func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(
	supervisor *database.Supervisor,
	store user.Store,
	scheduler *Scheduler,
	logger *zap.Logger,
	onFatal func(error),
) *Runner {
	return &Runner{
		supervisor: supervisor,
		store:      store,
		scheduler:  scheduler,
		logger:     logger,
		onFatal:    onFatal,
	}
}

// Start returns immediately. Connecting and ticking happen in the background
// so that a slow store never blocks shutdown signals.
func (r *Runner) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return errors.New("workload runner already started")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		err := r.run(runCtx)
		close(r.done)
		if err != nil && r.onFatal != nil {
			r.onFatal(err)
		}
	}()
	return nil
}

func (r *Runner) run(ctx context.Context) error {
	if err := r.supervisor.Establish(ctx, r.store.Connect); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		r.logger.Error("failed to connect to store", zap.Error(err))
		return err
	}
	r.logger.Info("connected to store")
	return r.scheduler.Run(ctx)
}

// Stop cancels the loop, waits for the in-flight tick and closes the store.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			r.logger.Warn("workload did not stop in time, closing store anyway", zap.Error(ctx.Err()))
			closeCtx, cancelClose := context.WithTimeout(context.Background(), storeCloseTimeout)
			defer cancelClose()
			return errors.Join(ctx.Err(), r.store.Close(closeCtx))
		}
	}

	r.logger.Info("closing store connection")
	return r.store.Close(ctx)
}

// Done is closed once the background goroutine has returned.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
