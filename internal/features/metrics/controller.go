package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultWindowDays = 30

type MetricsController struct {
	MetricsService MetricsService
}

func NewMetricsController(metricsService MetricsService) *MetricsController {
	return &MetricsController{MetricsService: metricsService}
}

// GetSnapshot builds a fresh snapshot for the requested window and store
// filter. Query params: start, end (2006-01-02 or RFC3339), store_id (hex).
// Defaults to the trailing 30 days, unfiltered.
func (ctrl *MetricsController) GetSnapshot(ctx *fiber.Ctx) error {
	filters, err := ParseSnapshotFilters(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snap, err := ctrl.MetricsService.BuildSnapshot(ctx.UserContext(), filters)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(snap)
}

// GetLatestSnapshot returns the most recently applied snapshot without
// triggering a rebuild.
func (ctrl *MetricsController) GetLatestSnapshot(ctx *fiber.Ctx) error {
	snap := ctrl.MetricsService.Latest()
	if snap == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no snapshot built yet"})
	}
	return ctx.JSON(snap)
}

// ParseSnapshotFilters reads the window and store filter query params shared
// by the snapshot and export endpoints.
func ParseSnapshotFilters(ctx *fiber.Ctx) (SnapshotFilters, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -defaultWindowDays)

	if raw := ctx.Query("start"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return SnapshotFilters{}, fiber.NewError(fiber.StatusBadRequest, "invalid start date")
		}
		start = t
	}
	if raw := ctx.Query("end"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return SnapshotFilters{}, fiber.NewError(fiber.StatusBadRequest, "invalid end date")
		}
		end = t
	}
	if !start.Before(end) {
		return SnapshotFilters{}, fiber.NewError(fiber.StatusBadRequest, "start must be before end")
	}

	filters := SnapshotFilters{Start: start, End: end}
	if raw := ctx.Query("store_id"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return SnapshotFilters{}, fiber.NewError(fiber.StatusBadRequest, "invalid store_id")
		}
		filters.StoreID = &oid
	}
	return filters, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
