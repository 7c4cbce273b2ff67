package user

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T, statuses ...string) *MemoryUserRepository {
	t.Helper()
	repo := NewMemoryUserRepository(nil)
	for i, status := range statuses {
		require.NoError(t, repo.Insert(context.Background(), &User{UserID: FormatUserID(int64(i)), Status: status}))
	}
	return repo
}

func TestMemoryCountAndSample(t *testing.T) {
	ctx := context.Background()
	repo := seedMemory(t, StatusActive, StatusInactive, StatusActive, StatusActive)

	total, err := repo.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	active, err := repo.Count(ctx, Filter{Status: StatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(3), active)

	ids, err := repo.Sample(ctx, Filter{Status: StatusActive}, 2)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	for _, id := range ids {
		assert.NotEqual(t, "user0001", id)
	}

	ids, err = repo.Sample(ctx, Filter{Status: StatusInactive}, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"user0001"}, ids)
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := seedMemory(t, StatusActive)
	now := time.Now().UTC()

	modified, err := repo.UpdateFields(ctx, "user0000", Fields{FieldStatus: StatusInactive, FieldLastLoginAt: now})
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	got, ok := repo.Get("user0000")
	require.True(t, ok)
	assert.Equal(t, StatusInactive, got.Status)
	assert.Equal(t, now, got.LastLoginAt)

	modified, err = repo.UpdateFields(ctx, "user0000", Fields{FieldStatus: StatusInactive, FieldLastLoginAt: now})
	require.NoError(t, err)
	assert.Zero(t, modified)

	modified, err = repo.UpdateFields(ctx, "missing", Fields{FieldStatus: StatusActive})
	require.NoError(t, err)
	assert.Zero(t, modified)

	deleted, err := repo.Delete(ctx, "user0000")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = repo.Delete(ctx, "user0000")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestMemoryInsertStoresCopy(t *testing.T) {
	repo := NewMemoryUserRepository(nil)
	u := &User{UserID: "user0001", Status: StatusActive}
	require.NoError(t, repo.Insert(context.Background(), u))

	u.Status = StatusInactive
	got, _ := repo.Get("user0001")
	assert.Equal(t, StatusActive, got.Status)
}

func TestMemorySampleIsRepeatableWithSeed(t *testing.T) {
	sample := func() []string {
		repo := NewMemoryUserRepository(rand.New(rand.NewPCG(42, 42)))
		for i := 0; i < 30; i++ {
			require.NoError(t, repo.Insert(context.Background(), &User{UserID: FormatUserID(int64(i)), Status: StatusActive}))
		}
		var ids []string
		for i := 0; i < 5; i++ {
			got, err := repo.Sample(context.Background(), Filter{}, 10)
			require.NoError(t, err)
			ids = append(ids, got...)
		}
		return ids
	}

	assert.Equal(t, sample(), sample())
}
