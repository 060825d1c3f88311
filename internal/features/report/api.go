package report

import (
	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	Controller *ReportController
}

func NewReportApi(controller *ReportController) *ReportApi {
	return &ReportApi{Controller: controller}
}

func (a *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports")

	group.Get("/snapshot/export", a.Controller.ExportSnapshot)
}
