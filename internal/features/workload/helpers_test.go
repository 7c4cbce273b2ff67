package workload

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"crud-service/internal/config"
	"crud-service/internal/features/user"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var errStoreDown = errors.New("connection refused")

func testConfig() *config.Config {
	return &config.Config{
		MinUsers:     5,
		MaxUsers:     20,
		MinInterval:  10 * time.Second,
		MaxInterval:  30 * time.Second,
		SampleLimit:  20,
		StatsEvery:   10,
		ErrorBackoff: 5 * time.Second,
		UserIDStart:  2000,
	}
}

type fixture struct {
	cfg       *config.Config
	repo      user.UserRepository
	status    *Status
	executor  *Executor
	scheduler *Scheduler
}

func newFixture(t *testing.T, cfg *config.Config, repo user.UserRepository, seed uint64) *fixture {
	t.Helper()
	return newFixtureWithLogger(cfg, repo, seed, zaptest.NewLogger(t))
}

func newFixtureWithLogger(cfg *config.Config, repo user.UserRepository, seed uint64, logger *zap.Logger) *fixture {
	rng := rand.New(rand.NewPCG(seed, seed))
	status := NewStatus()
	executor := NewExecutor(cfg, repo, user.NewFactory(cfg.UserIDStart, rng), NewSelector(cfg, rng), status, rng, logger)
	return &fixture{
		cfg:       cfg,
		repo:      repo,
		status:    status,
		executor:  executor,
		scheduler: NewScheduler(cfg, executor, repo, status, rng, logger),
	}
}

// seedUsers inserts n users with fixed attributes and an old login time.
func seedUsers(t *testing.T, repo *user.MemoryUserRepository, n int, status string) {
	t.Helper()
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		u := &user.User{
			UserID:      user.FormatUserID(int64(9000 + i)),
			Status:      status,
			Role:        "Intern",
			Department:  "Legal",
			CreatedAt:   old,
			LastLoginAt: old,
		}
		if err := repo.Insert(context.Background(), u); err != nil {
			t.Fatal(err)
		}
	}
}

// failingRepo fails every call.
type failingRepo struct{}

func (failingRepo) Count(context.Context, user.Filter) (int64, error) {
	return 0, &user.StoreError{Op: "count", Err: errStoreDown}
}

func (failingRepo) Sample(context.Context, user.Filter, int64) ([]string, error) {
	return nil, &user.StoreError{Op: "sample", Err: errStoreDown}
}

func (failingRepo) Insert(context.Context, *user.User) error {
	return &user.StoreError{Op: "insert", Err: errStoreDown}
}

func (failingRepo) UpdateFields(context.Context, string, user.Fields) (int64, error) {
	return 0, &user.StoreError{Op: "update", Err: errStoreDown}
}

func (failingRepo) Delete(context.Context, string) (int64, error) {
	return 0, &user.StoreError{Op: "delete", Err: errStoreDown}
}

// staleRepo reports a population but every write finds nothing to change,
// as if another writer got there first.
type staleRepo struct {
	failingRepo
	population int64
}

func (r staleRepo) Count(context.Context, user.Filter) (int64, error) {
	return r.population, nil
}

func (staleRepo) Sample(context.Context, user.Filter, int64) ([]string, error) {
	return []string{"user2001"}, nil
}

func (staleRepo) UpdateFields(context.Context, string, user.Fields) (int64, error) {
	return 0, nil
}

func (staleRepo) Delete(context.Context, string) (int64, error) {
	return 0, nil
}

// panickingRepo panics on Count, standing in for an unexpected bug.
type panickingRepo struct {
	failingRepo
}

func (panickingRepo) Count(context.Context, user.Filter) (int64, error) {
	panic("unexpected nil document")
}
