package routes

import (
	"Backend-Rhea/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// fillRoutes are reached by share token; no login required
func fillRoutes(router fiber.Router) {
	fillsGroup := router.Group("/fills")

	fillsGroup.Get("/:token", controllers.GetFill)
	fillsGroup.Put("/:token/answers", controllers.EditAnswer)
	fillsGroup.Post("/:token/submit", controllers.SubmitFill)
}
