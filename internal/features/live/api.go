package live

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type LiveApi struct {
	Hub *Hub
}

func NewLiveApi(hub *Hub) *LiveApi {
	return &LiveApi{Hub: hub}
}

func (a *LiveApi) Setup(app *fiber.App) {
	app.Get("/api/live/snapshot", websocket.New(a.Hub.HandleConnection))
}
