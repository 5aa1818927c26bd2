package routes

import (
	"Backend-Rhea/src/controllers"
	"Backend-Rhea/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// formRoutes wires form management and the editor save/sync endpoints
func formRoutes(router fiber.Router) {
	forms := router.Group("/forms")

	forms.Get("/", controllers.GetForms)
	forms.Get("/:id", controllers.GetFormByID)

	forms.Post("/", middleware.AuthJWT, controllers.CreateForm)
	forms.Patch("/:id", middleware.AuthJWT, controllers.UpdateForm)
	forms.Delete("/:id", middleware.AuthJWT, controllers.DeleteForm)

	forms.Put("/:id/contents", middleware.AuthJWT, controllers.SaveContents)
	forms.Post("/:id/preview", middleware.AuthJWT, controllers.PreviewForm)
	forms.Post("/:id/send", middleware.AuthJWT, controllers.SendForm)
}
