package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dryfruits/inventory-api/internal/domain"
)

// StockRecord representa el stock de un producto en una bodega concreta.
// Es la unidad atómica del ledger: a lo sumo existe un registro por par
// (ProductID, WarehouseID). AvailableQuantity y ReservedQuantity son contadores
// disjuntos y nunca negativos; la suma de ambos solo cambia por ciclo de vida
// (create/update/delete) o por confirmación de venta.
type StockRecord struct {
	ID                string
	ProductID         string
	ProductName       string
	WarehouseID       string
	WarehouseName     string
	AvailableQuantity int
	ReservedQuantity  int
	MinimumStockLevel int
	MaximumStockLevel int
	UnitCost          decimal.Decimal // informativo, costo unitario
	Status            StockStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el disponible está en o por debajo del mínimo.
func (r *StockRecord) IsLowStock() bool {
	return r.AvailableQuantity <= r.MinimumStockLevel
}

// IsOutOfStock indica si no queda stock disponible.
func (r *StockRecord) IsOutOfStock() bool {
	return r.AvailableQuantity <= 0
}

// TotalQuantity disponible + reservado.
func (r *StockRecord) TotalQuantity() int {
	return r.AvailableQuantity + r.ReservedQuantity
}

// CanReserve indica si hay disponible suficiente para reservar quantity.
func (r *StockRecord) CanReserve(quantity int) bool {
	return r.AvailableQuantity >= quantity
}

// Reserve mueve quantity de disponible a reservado.
func (r *StockRecord) Reserve(quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if !r.CanReserve(quantity) {
		return domain.ErrInsufficientStock
	}
	r.AvailableQuantity -= quantity
	r.ReservedQuantity += quantity
	return nil
}

// ReleaseReserved devuelve quantity de reservado a disponible.
func (r *StockRecord) ReleaseReserved(quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if r.ReservedQuantity < quantity {
		return domain.ErrInvalidState
	}
	r.ReservedQuantity -= quantity
	r.AvailableQuantity += quantity
	return nil
}

// ConfirmSale descuenta quantity del reservado sin tocar el disponible
// (la mercancía salió de la bodega).
func (r *StockRecord) ConfirmSale(quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if r.ReservedQuantity < quantity {
		return domain.ErrInvalidState
	}
	r.ReservedQuantity -= quantity
	return nil
}
