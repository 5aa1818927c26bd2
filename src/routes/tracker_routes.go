package routes

import (
	"Backend-Rhea/src/controllers"
	"Backend-Rhea/src/middleware"

	"github.com/gofiber/fiber/v2"
)

func trackerRoutes(router fiber.Router) {
	projects := router.Group("/projects")
	projects.Post("/", middleware.AuthJWT, controllers.CreateProject)
	projects.Get("/:id/board", controllers.GetBoard)
	projects.Post("/:id/issues", middleware.AuthJWT, controllers.CreateIssue)

	issues := router.Group("/issues")
	issues.Post("/:id/move", middleware.AuthJWT, controllers.MoveIssue)
	issues.Delete("/:id", middleware.AuthJWT, controllers.DeleteIssue)
}
