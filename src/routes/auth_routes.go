package routes

import (
	"Backend-Rhea/src/controllers"
	"Backend-Rhea/src/middleware"

	"github.com/gofiber/fiber/v2"
)

func authRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Post("/login", controllers.Login)
	auth.Post("/logout", middleware.AuthJWT, controllers.Logout)
}
