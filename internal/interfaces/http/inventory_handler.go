package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dryfruits/inventory-api/internal/application/dto"
	"github.com/dryfruits/inventory-api/internal/application/inventory"
	"github.com/dryfruits/inventory-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del ledger de stock: ciclo de
// vida de registros, reservas y reportes de disponibilidad.
type InventoryHandler struct {
	lifecycle   *inventory.LifecycleUseCase
	reservation *inventory.ReservationUseCase
	reporting   *inventory.ReportingUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	lifecycle *inventory.LifecycleUseCase,
	reservation *inventory.ReservationUseCase,
	reporting *inventory.ReportingUseCase,
) *InventoryHandler {
	return &InventoryHandler{lifecycle: lifecycle, reservation: reservation, reporting: reporting}
}

// writeDomainError traduce errores de dominio a códigos HTTP. Los callers de
// la API ramifican por Code, nunca por el texto.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	case errors.Is(err, domain.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_EXISTS", Message: "ya existe inventario para ese producto en esa bodega"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock disponible insuficiente"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "stock reservado insuficiente"})
	case errors.Is(err, domain.ErrBusy):
		return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: "BUSY", Message: "el producto está bloqueado, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// List GET /api/inventory
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.lifecycle.List(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// GetByID GET /api/inventory/:id
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.lifecycle.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/inventory
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.lifecycle.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update PUT /api/inventory/:id
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.lifecycle.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(item)
}

// Delete DELETE /api/inventory/:id
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.Delete(c.Context(), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByProduct GET /api/inventory/product/:productId
func (h *InventoryHandler) GetByProduct(c *fiber.Ctx) error {
	items, err := h.lifecycle.GetByProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// GetByProductAndWarehouse GET /api/inventory/product/:productId/warehouse/:warehouseId
func (h *InventoryHandler) GetByProductAndWarehouse(c *fiber.Ctx) error {
	item, err := h.lifecycle.GetByProductAndWarehouse(c.Context(), c.Params("productId"), c.Params("warehouseId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(item)
}

// GetByWarehouse GET /api/inventory/warehouse/:warehouseId
func (h *InventoryHandler) GetByWarehouse(c *fiber.Ctx) error {
	items, err := h.reporting.ListByWarehouse(c.Context(), c.Params("warehouseId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// Movements GET /api/inventory/:id/movements
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	items, err := h.lifecycle.Movements(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// Reserve POST /api/inventory/reserve
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.StockReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.reservation.Reserve(c.Context(), in.ProductID, in.Quantity, in.Reference); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "stock reservado"})
}

// Release POST /api/inventory/release
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.StockReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.reservation.Release(c.Context(), in.ProductID, in.Quantity, in.Reference); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// ConfirmSale POST /api/inventory/confirm-sale
func (h *InventoryHandler) ConfirmSale(c *fiber.Ctx) error {
	var in dto.StockReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.reservation.ConfirmSale(c.Context(), in.ProductID, in.Quantity, in.Reference); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta confirmada"})
}

// CheckAvailability GET /api/inventory/availability/:productId/:quantity
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	quantity, err := c.ParamsInt("quantity")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cantidad inválida"})
	}
	res, err := h.reporting.CheckAvailability(c.Context(), c.Params("productId"), quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(res)
}

// TotalAvailable GET /api/inventory/total-available/:productId
func (h *InventoryHandler) TotalAvailable(c *fiber.Ctx) error {
	total, err := h.reporting.TotalAvailable(c.Context(), c.Params("productId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": c.Params("productId"), "total_available": total})
}

// LowStock GET /api/inventory/low-stock
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.reporting.LowStockItems(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// OutOfStock GET /api/inventory/out-of-stock
func (h *InventoryHandler) OutOfStock(c *fiber.Ctx) error {
	items, err := h.reporting.OutOfStockItems(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// ListByStatus GET /api/inventory/status/:status
func (h *InventoryHandler) ListByStatus(c *fiber.Ctx) error {
	items, err := h.reporting.ListByStatus(c.Context(), c.Params("status"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// Search GET /api/inventory/search?name=
func (h *InventoryHandler) Search(c *fiber.Ctx) error {
	items, err := h.reporting.SearchByName(c.Context(), c.Query("name"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}
