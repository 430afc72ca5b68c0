package repository

import (
	"context"

	"github.com/dryfruits/inventory-api/internal/domain/entity"
)

// StockMovementRepository puerto para la traza de auditoría del ledger.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByRecord(ctx context.Context, recordID string, limit, offset int) ([]*entity.StockMovement, error)
}
