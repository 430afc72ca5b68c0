package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dryfruits/inventory-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Lifecycle   *inventory.LifecycleUseCase
	Reservation *inventory.ReservationUseCase
	Reporting   *inventory.ReportingUseCase
}

// Router registra las rutas de la API. Las rutas literales van antes que las
// paramétricas para que "/low-stock" no caiga en "/:id".
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	inv := api.Group("/inventory")
	h := NewInventoryHandler(deps.Lifecycle, deps.Reservation, deps.Reporting)

	// Transiciones del ledger
	inv.Post("/reserve", h.Reserve)
	inv.Post("/release", h.Release)
	inv.Post("/confirm-sale", h.ConfirmSale)

	// Reportes y disponibilidad
	inv.Get("/low-stock", h.LowStock)
	inv.Get("/out-of-stock", h.OutOfStock)
	inv.Get("/search", h.Search)
	inv.Get("/status/:status", h.ListByStatus)
	inv.Get("/availability/:productId/:quantity", h.CheckAvailability)
	inv.Get("/total-available/:productId", h.TotalAvailable)
	inv.Get("/warehouse/:warehouseId", h.GetByWarehouse)
	inv.Get("/product/:productId/warehouse/:warehouseId", h.GetByProductAndWarehouse)
	inv.Get("/product/:productId", h.GetByProduct)

	// Ciclo de vida
	inv.Get("/", h.List)
	inv.Post("/", h.Create)
	inv.Get("/:id/movements", h.Movements)
	inv.Get("/:id", h.GetByID)
	inv.Put("/:id", h.Update)
	inv.Delete("/:id", h.Delete)
}
