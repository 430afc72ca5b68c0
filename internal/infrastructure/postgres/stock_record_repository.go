package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

const stockRecordColumns = `
	id, product_id, product_name, warehouse_id, warehouse_name,
	available_quantity, reserved_quantity, minimum_stock_level, maximum_stock_level,
	unit_cost, status, created_at, updated_at`

// StockRecordRepo implementación del puerto StockRecordRepository sobre
// PostgreSQL (usable con pool o tx vía Querier).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

func scanStockRecord(row pgx.Row) (*entity.StockRecord, error) {
	var r entity.StockRecord
	err := row.Scan(
		&r.ID, &r.ProductID, &r.ProductName, &r.WarehouseID, &r.WarehouseName,
		&r.AvailableQuantity, &r.ReservedQuantity, &r.MinimumStockLevel, &r.MaximumStockLevel,
		&r.UnitCost, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *StockRecordRepo) queryMany(ctx context.Context, query string, args ...any) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.StockRecord
	for rows.Next() {
		rec, err := scanStockRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FindByID obtiene un registro por ID; nil si no existe.
func (r *StockRecordRepo) FindByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + ` FROM stock_records WHERE id = $1`
	rec, err := scanStockRecord(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return rec, nil
}

// FindByProduct registros de un producto, bodegas en orden ascendente.
func (r *StockRecordRepo) FindByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1 ORDER BY warehouse_id`
	recs, err := r.queryMany(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	return recs, nil
}

// FindByProductForUpdate igual que FindByProduct pero bloqueando las filas
// (SELECT FOR UPDATE). El conjunto de filas del producto es la sección
// crítica: dos transacciones sobre el mismo producto se serializan aquí y el
// lock_timeout de la transacción acota la espera.
func (r *StockRecordRepo) FindByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1 ORDER BY warehouse_id FOR UPDATE`
	recs, err := r.queryMany(ctx, query, productID)
	if err != nil {
		if isLockTimeout(err) {
			return nil, domain.ErrBusy
		}
		return nil, fmt.Errorf("lock stock by product: %w", err)
	}
	return recs, nil
}

// FindByProductAndWarehouse registro puntual del par; nil si no existe.
func (r *StockRecordRepo) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1 AND warehouse_id = $2`
	rec, err := scanStockRecord(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock by product and warehouse: %w", err)
	}
	return rec, nil
}

// FindByWarehouse registros de una bodega.
func (r *StockRecordRepo) FindByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records WHERE warehouse_id = $1 ORDER BY product_id`
	recs, err := r.queryMany(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	return recs, nil
}

// FindAll todos los registros en orden estable.
func (r *StockRecordRepo) FindAll(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records ORDER BY product_id, warehouse_id`
	recs, err := r.queryMany(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	return recs, nil
}

// FindByStatus registros en un estado dado.
func (r *StockRecordRepo) FindByStatus(ctx context.Context, status entity.StockStatus) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records WHERE status = $1 ORDER BY product_id, warehouse_id`
	recs, err := r.queryMany(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list stock by status: %w", err)
	}
	return recs, nil
}

// Create inserta un registro nuevo. El índice único (product_id, warehouse_id)
// convierte el duplicado en domain.ErrAlreadyExists aun bajo carreras.
func (r *StockRecordRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (` + stockRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.ProductID, rec.ProductName, rec.WarehouseID, rec.WarehouseName,
		rec.AvailableQuantity, rec.ReservedQuantity, rec.MinimumStockLevel, rec.MaximumStockLevel,
		rec.UnitCost, string(rec.Status), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert stock record: %w", err)
	}
	return nil
}

// Save actualiza los campos mutables de un registro existente.
func (r *StockRecordRepo) Save(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		UPDATE stock_records SET
			product_name = $2, warehouse_name = $3,
			available_quantity = $4, reserved_quantity = $5,
			minimum_stock_level = $6, maximum_stock_level = $7,
			unit_cost = $8, status = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.ProductName, rec.WarehouseName,
		rec.AvailableQuantity, rec.ReservedQuantity,
		rec.MinimumStockLevel, rec.MaximumStockLevel,
		rec.UnitCost, string(rec.Status), rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un registro de forma permanente.
func (r *StockRecordRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindLowStock registros ACTIVE con disponible <= mínimo.
func (r *StockRecordRepo) FindLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records
		WHERE status = 'ACTIVE' AND available_quantity <= minimum_stock_level
		ORDER BY product_id, warehouse_id`
	recs, err := r.queryMany(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return recs, nil
}

// FindOutOfStock registros ACTIVE sin disponible.
func (r *StockRecordRepo) FindOutOfStock(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records
		WHERE status = 'ACTIVE' AND available_quantity <= 0
		ORDER BY product_id, warehouse_id`
	recs, err := r.queryMany(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list out of stock: %w", err)
	}
	return recs, nil
}

// SearchByProductName subcadena sin distinguir mayúsculas, solo ACTIVE.
func (r *StockRecordRepo) SearchByProductName(ctx context.Context, name string) ([]*entity.StockRecord, error) {
	query := `SELECT` + stockRecordColumns + `
		FROM stock_records
		WHERE status = 'ACTIVE' AND product_name ILIKE '%' || $1 || '%'
		ORDER BY product_id, warehouse_id`
	recs, err := r.queryMany(ctx, query, escapeLike(name))
	if err != nil {
		return nil, fmt.Errorf("search stock by product name: %w", err)
	}
	return recs, nil
}

// TotalAvailable suma del disponible ACTIVE del producto; 0 si no hay registros.
func (r *StockRecordRepo) TotalAvailable(ctx context.Context, productID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(available_quantity), 0)
		FROM stock_records WHERE product_id = $1 AND status = 'ACTIVE'`
	var total int
	if err := r.q.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum available: %w", err)
	}
	return total, nil
}

// TotalReserved suma del reservado ACTIVE del producto.
func (r *StockRecordRepo) TotalReserved(ctx context.Context, productID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(reserved_quantity), 0)
		FROM stock_records WHERE product_id = $1 AND status = 'ACTIVE'`
	var total int
	if err := r.q.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum reserved: %w", err)
	}
	return total, nil
}
