package api

import (
	"crud-service/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	supervisor *database.Supervisor
}

func NewHealthApi(supervisor *database.Supervisor) *HealthApi {
	return &HealthApi{supervisor: supervisor}
}

// Setup registers health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
}

// HealthCheck reports the store connection state. It answers 503 until the
// startup connection has succeeded.
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	state := h.supervisor.State()
	code := fiber.StatusOK
	if state != database.StateReady {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"store":    state,
		"attempts": h.supervisor.Attempts(),
	})
}
