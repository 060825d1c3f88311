package metrics

import (
	"github.com/gofiber/fiber/v2"
)

type MetricsApi struct {
	Controller *MetricsController
}

func NewMetricsApi(controller *MetricsController) *MetricsApi {
	return &MetricsApi{Controller: controller}
}

func (a *MetricsApi) Setup(app *fiber.App) {
	group := app.Group("/api/metrics")

	group.Get("/snapshot", a.Controller.GetSnapshot)
	group.Get("/snapshot/latest", a.Controller.GetLatestSnapshot)
}
