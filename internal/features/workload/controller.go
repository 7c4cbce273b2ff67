package workload

import (
	"github.com/gofiber/fiber/v2"
)

type WorkloadController struct {
	Status *Status
}

func NewWorkloadController(status *Status) *WorkloadController {
	return &WorkloadController{Status: status}
}

// GetStatus returns the in-memory counters without querying the store.
func (c *WorkloadController) GetStatus(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Status.Snapshot())
}

// GetStats returns the last population snapshot taken by the loop.
func (c *WorkloadController) GetStats(ctx *fiber.Ctx) error {
	stats := c.Status.lastStats.Load()
	if stats == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no stats collected yet"})
	}
	return ctx.JSON(stats)
}
