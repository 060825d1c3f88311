package auth

import (
	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	Controller *AuthController
}

func NewAuthApi(controller *AuthController) *AuthApi {
	return &AuthApi{Controller: controller}
}

// Setup registers the token endpoints. They live outside /api so the JWT
// middleware never guards the login itself.
func (a *AuthApi) Setup(app *fiber.App) {
	app.Post("/auth/register", a.Controller.Register)
	app.Post("/auth/login", a.Controller.Login)
}
