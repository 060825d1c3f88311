package alert

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AlertController struct {
	AlertService AlertService
}

func NewAlertController(alertService AlertService) *AlertController {
	return &AlertController{AlertService: alertService}
}

func (ctrl *AlertController) CreateRule(ctx *fiber.Ctx) error {
	var rule AlertRule
	if err := ctx.BodyParser(&rule); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.AlertService.CreateRule(ctx.UserContext(), &rule); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(rule)
}

func (ctrl *AlertController) GetRule(ctx *fiber.Ctx) error {
	rule, err := ctrl.AlertService.GetRule(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(rule)
}

func (ctrl *AlertController) ListRules(ctx *fiber.Ctx) error {
	rules, err := ctrl.AlertService.ListRules(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(rules)
}

func (ctrl *AlertController) UpdateRule(ctx *fiber.Ctx) error {
	var rule AlertRule
	if err := ctx.BodyParser(&rule); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.AlertService.UpdateRule(ctx.UserContext(), ctx.Params("id"), &rule); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(rule)
}

func (ctrl *AlertController) DeleteRule(ctx *fiber.Ctx) error {
	if err := ctrl.AlertService.DeleteRule(ctx.UserContext(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (ctrl *AlertController) ListEvents(ctx *fiber.Ctx) error {
	limit, err := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 50
	}

	events, err := ctrl.AlertService.ListEvents(ctx.UserContext(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(events)
}
