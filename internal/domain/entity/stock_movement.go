package entity

import "time"

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeReserve    = "RESERVE"    // disponible -> reservado
	MovementTypeRelease    = "RELEASE"    // reservado -> disponible
	MovementTypeSale       = "SALE"       // reservado -> fuera de bodega
	MovementTypeAdjustment = "ADJUSTMENT" // edición administrativa del disponible
)

// StockMovement registro inmutable de auditoría por cada mutación exitosa del
// ledger. Quienes necesiten historial antes de un borrado tienen aquí la traza.
type StockMovement struct {
	ID          string
	RecordID    string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    int
	Reference   string // orden, nota de ajuste, etc. (opcional)
	CreatedAt   time.Time
}
