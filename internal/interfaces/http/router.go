package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para montar las rutas.
type RouterDeps struct {
	AuthHandler       *AuthHandler
	TenderHandler     *TenderHandler
	AssignmentHandler *AssignmentHandler
	LifecycleHandler  *LifecycleHandler
	JWTSecret         string
}

// Router monta todas las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas públicas
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", deps.AuthHandler.Register)
	authRoutes.Post("/login", deps.AuthHandler.Login)

	// Rutas protegidas
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	tenders := protected.Group("/tenders")
	tenders.Post("/", deps.TenderHandler.Create)
	tenders.Get("/", deps.TenderHandler.List)
	tenders.Get("/:id", deps.TenderHandler.Get)
	tenders.Patch("/:id", deps.TenderHandler.Update)
	tenders.Delete("/:id", deps.TenderHandler.Delete)
	tenders.Get("/:id/permissions", deps.TenderHandler.Permissions)

	tenders.Get("/:id/assignees", deps.AssignmentHandler.List)
	tenders.Post("/:id/assignees", deps.AssignmentHandler.Assign)
	tenders.Post("/:id/assignees/bulk", deps.AssignmentHandler.BulkAssign)
	tenders.Post("/:id/assignees/transfer", deps.AssignmentHandler.TransferOwnership)
	tenders.Put("/:id/assignees/:userId", deps.AssignmentHandler.Update)
	tenders.Delete("/:id/assignees/:userId", deps.AssignmentHandler.Revoke)

	tenders.Post("/:id/transitions", deps.LifecycleHandler.Transition)
	tenders.Get("/:id/transitions", deps.LifecycleHandler.History)
	tenders.Post("/:id/outcome", deps.LifecycleHandler.Outcome)
}
