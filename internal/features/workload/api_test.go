package workload

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"crud-service/internal/features/user"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloadApi(t *testing.T) {
	repo := user.NewMemoryUserRepository(nil)
	f := newFixture(t, testConfig(), repo, 1)

	app := fiber.New()
	NewWorkloadApi(NewWorkloadController(f.status)).Setup(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/workload/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	for i := 0; i < 10; i++ {
		f.scheduler.step(context.Background())
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/workload/stats", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats Stats
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, stats.Active+stats.Inactive, stats.Total)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/workload/status", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var snap StatusSnapshot
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, int64(10), snap.Ticks)
	assert.GreaterOrEqual(t, snap.Operations[OpInsert][ResultSucceeded], int64(5))
}
