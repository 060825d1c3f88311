package report

import (
	"github.com/gofiber/fiber/v2"

	"go-retail/internal/features/metrics"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// ExportSnapshot streams the snapshot for the requested window as a CSV or
// XLSX attachment. Query params: format (csv default), start, end, store_id.
func (ctrl *ReportController) ExportSnapshot(ctx *fiber.Ctx) error {
	filters, err := metrics.ParseSnapshotFilters(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	format := ctx.Query("format", "csv")
	data, filename, err := ctrl.ReportService.ExportSnapshot(ctx.UserContext(), filters, format)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Send(data)
}
