package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo estándar de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateStockRecordRequest body para POST /api/inventory.
type CreateStockRecordRequest struct {
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	WarehouseID       string           `json:"warehouse_id"`
	WarehouseName     string           `json:"warehouse_name"`
	AvailableQuantity int              `json:"available_quantity"`
	MinimumStockLevel int              `json:"minimum_stock_level"`
	MaximumStockLevel int              `json:"maximum_stock_level"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	Status            string           `json:"status,omitempty"` // vacío = ACTIVE
}

// UpdateStockRecordRequest body para PUT /api/inventory/:id.
// Campos nil se conservan. El reservado no es editable por esta vía:
// es responsabilidad exclusiva del coordinador de reservas.
type UpdateStockRecordRequest struct {
	AvailableQuantity *int             `json:"available_quantity,omitempty"`
	MinimumStockLevel *int             `json:"minimum_stock_level,omitempty"`
	MaximumStockLevel *int             `json:"maximum_stock_level,omitempty"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	Status            *string          `json:"status,omitempty"`
}

// StockReservationRequest body para reserve/release/confirm-sale.
type StockReservationRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference,omitempty"` // orden asociada (opcional)
}

// StockRecordResponse representación de un registro de stock.
type StockRecordResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	WarehouseID       string          `json:"warehouse_id"`
	WarehouseName     string          `json:"warehouse_name"`
	AvailableQuantity int             `json:"available_quantity"`
	ReservedQuantity  int             `json:"reserved_quantity"`
	TotalQuantity     int             `json:"total_quantity"`
	MinimumStockLevel int             `json:"minimum_stock_level"`
	MaximumStockLevel int             `json:"maximum_stock_level"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Status            string          `json:"status"`
	StatusDescription string          `json:"status_description"`
	LowStock          bool            `json:"low_stock"`
	OutOfStock        bool            `json:"out_of_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockAvailabilityResponse respuesta de GET /api/inventory/availability/:productId/:quantity.
type StockAvailabilityResponse struct {
	ProductID         string `json:"product_id"`
	RequestedQuantity int    `json:"requested_quantity"`
	TotalAvailable    int    `json:"total_available"`
	Available         bool   `json:"available"`
}

// StockMovementResponse un movimiento de la traza de auditoría.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"record_id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
