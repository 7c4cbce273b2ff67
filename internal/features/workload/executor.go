package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"crud-service/internal/config"
	"crud-service/internal/features/user"

	"go.uber.org/zap"
)

// Executor performs one operation per call against the store. Store failures
// end the operation with a failed Outcome; they are never returned or raised.
type Executor struct {
	repo     user.UserRepository
	factory  *user.Factory
	selector *Selector
	status   *Status
	rng      *rand.Rand
	logger   *zap.Logger
	now      func() time.Time

	minUsers    int64
	maxUsers    int64
	sampleLimit int64
}

func NewExecutor(
	cfg *config.Config,
	repo user.UserRepository,
	factory *user.Factory,
	selector *Selector,
	status *Status,
	rng *rand.Rand,
	logger *zap.Logger,
) *Executor {
	return &Executor{
		repo:        repo,
		factory:     factory,
		selector:    selector,
		status:      status,
		rng:         rng,
		logger:      logger,
		now:         time.Now,
		minUsers:    cfg.MinUsers,
		maxUsers:    cfg.MaxUsers,
		sampleLimit: cfg.SampleLimit,
	}
}

// Perform counts the population, lets the selector choose, and executes the choice.
func (e *Executor) Perform(ctx context.Context) Outcome {
	n, err := e.repo.Count(ctx, user.Filter{})
	if err != nil {
		return e.report(Outcome{Operation: OpSelect, Result: ResultFailed, Detail: "population count failed", Err: err})
	}
	e.status.population.Store(n)
	populationGauge.WithLabelValues("all").Set(float64(n))

	op := e.selector.Choose(n)
	if n < e.minUsers {
		e.logger.Debug("population below floor, forcing insert",
			zap.Int64("population", n), zap.Int64("min_users", e.minUsers))
	}
	return e.Execute(ctx, op)
}

func (e *Executor) Execute(ctx context.Context, op Operation) Outcome {
	var o Outcome
	switch op {
	case OpInsert:
		o = e.insert(ctx)
	case OpUpdate:
		o = e.update(ctx)
	case OpSoftDelete:
		o = e.softDelete(ctx)
	case OpHardDelete:
		o = e.hardDelete(ctx)
	default:
		o = Outcome{Operation: op, Result: ResultSkipped, Detail: "unknown operation"}
	}
	return e.report(o)
}

func (e *Executor) insert(ctx context.Context) Outcome {
	// Recount: the ceiling check tolerates races by skipping.
	n, err := e.repo.Count(ctx, user.Filter{})
	if err != nil {
		return failed(OpInsert, err)
	}
	if n >= e.maxUsers {
		return Outcome{Operation: OpInsert, Result: ResultSkipped, Detail: "population at ceiling"}
	}

	u := e.factory.Generate()
	if err := e.repo.Insert(ctx, u); err != nil {
		return Outcome{Operation: OpInsert, Result: ResultFailed, UserID: u.UserID, Err: err}
	}
	return Outcome{Operation: OpInsert, Result: ResultSucceeded, UserID: u.UserID, Detail: "created user"}
}

func (e *Executor) update(ctx context.Context) Outcome {
	target, err := e.pickTarget(ctx, user.Filter{})
	if err != nil {
		return failed(OpUpdate, err)
	}
	if target == "" {
		return Outcome{Operation: OpUpdate, Result: ResultSkipped, Detail: "no users found to update"}
	}

	department := user.Pick(e.rng, user.Departments)
	role := user.Pick(e.rng, user.Roles)
	status := user.Pick(e.rng, user.Statuses)
	modified, err := e.repo.UpdateFields(ctx, target, user.Fields{
		user.FieldDepartment:  department,
		user.FieldRole:        role,
		user.FieldStatus:      status,
		user.FieldLastLoginAt: e.now().UTC(),
	})
	if err != nil {
		return Outcome{Operation: OpUpdate, Result: ResultFailed, UserID: target, Err: err}
	}
	if modified == 0 {
		return Outcome{Operation: OpUpdate, Result: ResultSkipped, UserID: target, Detail: "no changes made to user"}
	}
	return Outcome{
		Operation: OpUpdate,
		Result:    ResultSucceeded,
		UserID:    target,
		Detail:    fmt.Sprintf("updated user: %s, %s, %s", department, role, status),
	}
}

func (e *Executor) softDelete(ctx context.Context) Outcome {
	target, err := e.pickTarget(ctx, user.Filter{Status: user.StatusActive})
	if err != nil {
		return failed(OpSoftDelete, err)
	}
	if target == "" {
		return Outcome{Operation: OpSoftDelete, Result: ResultSkipped, Detail: "no active users found to deactivate"}
	}

	modified, err := e.repo.UpdateFields(ctx, target, user.Fields{
		user.FieldStatus:      user.StatusInactive,
		user.FieldLastLoginAt: e.now().UTC(),
	})
	if err != nil {
		return Outcome{Operation: OpSoftDelete, Result: ResultFailed, UserID: target, Err: err}
	}
	if modified == 0 {
		return Outcome{Operation: OpSoftDelete, Result: ResultSkipped, UserID: target, Detail: "user already gone"}
	}
	return Outcome{Operation: OpSoftDelete, Result: ResultSucceeded, UserID: target, Detail: "deactivated user"}
}

func (e *Executor) hardDelete(ctx context.Context) Outcome {
	n, err := e.repo.Count(ctx, user.Filter{})
	if err != nil {
		return failed(OpHardDelete, err)
	}
	if n <= e.minUsers {
		return Outcome{Operation: OpHardDelete, Result: ResultSkipped, Detail: "maintaining minimum users, skipping delete"}
	}

	target, err := e.pickTarget(ctx, user.Filter{})
	if err != nil {
		return failed(OpHardDelete, err)
	}
	if target == "" {
		return Outcome{Operation: OpHardDelete, Result: ResultSkipped, Detail: "no users found to delete"}
	}

	deleted, err := e.repo.Delete(ctx, target)
	if err != nil {
		return Outcome{Operation: OpHardDelete, Result: ResultFailed, UserID: target, Err: err}
	}
	if deleted == 0 {
		return Outcome{Operation: OpHardDelete, Result: ResultSkipped, UserID: target, Detail: "user already gone"}
	}
	return Outcome{Operation: OpHardDelete, Result: ResultSucceeded, UserID: target, Detail: "deleted user"}
}

// pickTarget samples candidates and returns one chosen uniformly, or "" when none match.
func (e *Executor) pickTarget(ctx context.Context, filter user.Filter) (string, error) {
	ids, err := e.repo.Sample(ctx, filter, e.sampleLimit)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return user.Pick(e.rng, ids), nil
}

func failed(op Operation, err error) Outcome {
	return Outcome{Operation: op, Result: ResultFailed, Err: err}
}

func (e *Executor) report(o Outcome) Outcome {
	operationsTotal.WithLabelValues(string(o.Operation), string(o.Result)).Inc()
	e.status.record(o)

	fields := []zap.Field{zap.String("operation", string(o.Operation))}
	if o.UserID != "" {
		fields = append(fields, zap.String("user_id", o.UserID))
	}

	switch o.Result {
	case ResultSucceeded:
		e.logger.Info(o.Detail, fields...)
	case ResultSkipped:
		e.logger.Info("operation skipped: "+o.Detail, fields...)
	case ResultFailed:
		fields = append(fields, zap.Error(o.Err))
		if errors.Is(o.Err, context.Canceled) {
			e.logger.Debug("operation interrupted by shutdown", fields...)
		} else {
			e.logger.Error("operation failed", fields...)
		}
	}
	return o
}

// CollectStats counts total, active and inactive users.
func CollectStats(ctx context.Context, repo user.UserRepository) (Stats, error) {
	var s Stats
	var err error
	if s.Total, err = repo.Count(ctx, user.Filter{}); err != nil {
		return s, err
	}
	if s.Active, err = repo.Count(ctx, user.Filter{Status: user.StatusActive}); err != nil {
		return s, err
	}
	if s.Inactive, err = repo.Count(ctx, user.Filter{Status: user.StatusInactive}); err != nil {
		return s, err
	}
	s.At = time.Now().UTC()
	return s, nil
}
