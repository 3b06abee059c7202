package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JCWilliams12/TaskTrack/internal/api/handlers"
	"github.com/JCWilliams12/TaskTrack/internal/middleware"
)

// RegisterRoutes mounts the API surface. The auth gate protects everything
// except registration, login and the health probe.
func RegisterRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	gate := middleware.RequireAuth(h.Tokens, h.Users)
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", gate, h.Me)

	tasks := api.Group("/tasks", gate)
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTask)
	// Registered before /:id so "stats" is not taken for a task id.
	tasks.Get("/stats/summary", h.TaskStats)
	tasks.Get("/:id", h.GetTask)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)
}
