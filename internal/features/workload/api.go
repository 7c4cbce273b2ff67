package workload

import "github.com/gofiber/fiber/v2"

type WorkloadApi struct {
	controller *WorkloadController
}

func NewWorkloadApi(controller *WorkloadController) *WorkloadApi {
	return &WorkloadApi{controller: controller}
}

func (h *WorkloadApi) Setup(app *fiber.App) {
	group := app.Group("/api/workload")
	group.Get("/status", h.controller.GetStatus)
	group.Get("/stats", h.controller.GetStats)
}
