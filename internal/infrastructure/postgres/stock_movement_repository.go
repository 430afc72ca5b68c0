package postgres

import (
	"context"
	"fmt"

	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto StockMovementRepository sobre
// PostgreSQL (usable con pool o tx vía Querier).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de la traza de auditoría.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, record_id, product_id, warehouse_id, type, quantity, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.RecordID, m.ProductID, m.WarehouseID, m.Type, m.Quantity, m.Reference, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, record_id, product_id, warehouse_id, type, quantity, reference, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryMovements(ctx, query, productID, limit, offset)
}

// ListByRecord movimientos de un registro, más recientes primero.
func (r *StockMovementRepo) ListByRecord(ctx context.Context, recordID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, record_id, product_id, warehouse_id, type, quantity, reference, created_at
		FROM stock_movements WHERE record_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryMovements(ctx, query, recordID, limit, offset)
}

func (r *StockMovementRepo) queryMovements(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.RecordID, &m.ProductID, &m.WarehouseID,
			&m.Type, &m.Quantity, &m.Reference, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
