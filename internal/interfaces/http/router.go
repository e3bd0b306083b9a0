package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appcontract "github.com/jhoicas/hospedagem-api/internal/application/contract"
)

// Roles con permiso para decidir sobre el contrato (aprobar, negar, eliminar).
var staffRoles = []string{"admin", "staff"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Contracts   *appcontract.ContractUseCase
	Composition *appcontract.CompositionUseCase
	Status      *appcontract.StatusUseCase
	JWTSecret   string
	// Metrics handler Prometheus; si es nil no se expone /metrics.
	Metrics http.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	h := NewContractHandler(deps.Contracts, deps.Composition, deps.Status)

	contracts := api.Group("/contracts")
	contracts.Post("/", h.Create)
	contracts.Get("/:id", h.GetByID)
	contracts.Patch("/:id", h.Update)
	contracts.Delete("/:id", RequireRole(staffRoles...), h.Delete)

	contracts.Post("/:id/pets", h.AttachPets)
	contracts.Delete("/:id/pets/:petId", h.DetachPet)
	contracts.Post("/:id/services", h.AttachServices)
	contracts.Delete("/:id/pets/:petId/services/:serviceId", h.DetachService)
	contracts.Patch("/:id/pets/:petId/services/:serviceId", h.UpdateServiceQuantity)

	contracts.Post("/:id/status", RequireRole(staffRoles...), h.Transition)
	contracts.Get("/:id/price", h.Price)
	contracts.Get("/:id/statement.pdf", h.Statement)

	api.Get("/owners/:ownerId/contracts", h.ListByOwner)
}
