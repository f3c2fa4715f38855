package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	backoffice "github.com/bohemiyan/backoffice"
	"github.com/bohemiyan/backoffice/internal/handlers"
	"github.com/bohemiyan/backoffice/realtime"
)

// Setup wires the REST endpoints and the websocket upgrade.
func Setup(app *fiber.App, svc *backoffice.Service, hub *realtime.Hub) {
	levels := handlers.NewAgentLevels(svc)
	perms := handlers.NewPermissions(svc)

	api := app.Group("/api")

	api.Get("/agent-levels", levels.List)
	api.Get("/agent-levels/validate-order", levels.ValidateOrder)
	api.Get("/agent-levels/:id", levels.Get)
	api.Post("/agent-levels", levels.Create)
	api.Put("/agent-levels/:id", levels.Update)
	api.Delete("/agent-levels/:id", levels.Delete)
	api.Put("/agent-levels/:id/hierarchy-order", levels.Reorder)

	api.Get("/permissions", perms.List)
	api.Get("/permissions/:id", perms.Get)
	api.Post("/permissions", perms.Create)
	api.Put("/permissions/:id", perms.Update)
	api.Delete("/permissions/:id", perms.Delete)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", hub.Handler())
}
