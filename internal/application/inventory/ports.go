package inventory

import (
	"context"
	"time"

	"github.com/dryfruits/inventory-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con exclusión mutua por
// producto: dos operaciones sobre el mismo productID nunca se intercalan,
// operaciones sobre productos distintos no se bloquean entre sí. Las
// escrituras de fn se aplican como una unidad atómica frente a cualquier
// lector; si fn devuelve error no se aplica nada. La espera por el bloqueo
// está acotada y se reporta como domain.ErrBusy.
type TxRunner interface {
	Run(ctx context.Context, productID string, fn func(
		records repository.StockRecordRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// Tipos de evento de stock publicados tras cada mutación exitosa.
const (
	EventStockReserved    = "stock.reserved"
	EventStockReleased    = "stock.released"
	EventSaleConfirmed    = "stock.sale_confirmed"
	EventLowStockDetected = "stock.low"
	EventRecordChanged    = "stock.record_changed" // create/update/delete administrativo
)

// StockEvent notificación de cambio del ledger. Una caché externa puede usar
// ProductID como clave de invalidación.
type StockEvent struct {
	Type        string    `json:"type"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
	RecordID    string    `json:"record_id,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher puerto de salida para eventos de stock. La publicación es
// best-effort: un fallo se registra pero no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, event StockEvent) error
}

// NopEventPublisher publicador nulo para tests y despliegues sin broker.
type NopEventPublisher struct{}

// Publish descarta el evento.
func (NopEventPublisher) Publish(context.Context, StockEvent) error { return nil }
