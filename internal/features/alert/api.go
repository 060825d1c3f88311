package alert

import (
	"github.com/gofiber/fiber/v2"
)

type AlertApi struct {
	Controller *AlertController
}

func NewAlertApi(controller *AlertController) *AlertApi {
	return &AlertApi{Controller: controller}
}

func (a *AlertApi) Setup(app *fiber.App) {
	group := app.Group("/api/alerts")

	rules := group.Group("/rules")
	rules.Get("/", a.Controller.ListRules)
	rules.Post("/", a.Controller.CreateRule)
	rules.Get("/:id", a.Controller.GetRule)
	rules.Put("/:id", a.Controller.UpdateRule)
	rules.Delete("/:id", a.Controller.DeleteRule)

	group.Get("/events", a.Controller.ListEvents)
}
