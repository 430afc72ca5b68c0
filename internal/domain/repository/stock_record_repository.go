package repository

import (
	"context"

	"github.com/dryfruits/inventory-api/internal/domain/entity"
)

// StockRecordRepository define el puerto de almacenamiento del ledger de stock.
// Cada lectura devuelve una vista consistente punto-en-el-tiempo; los listados
// por producto salen siempre ordenados por WarehouseID ascendente para que las
// tres operaciones del coordinador recorran las bodegas en el mismo orden.
type StockRecordRepository interface {
	FindByID(ctx context.Context, id string) (*entity.StockRecord, error)
	FindByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error)
	// FindByProductForUpdate bloquea los registros del producto para escritura
	// (SELECT FOR UPDATE); solo tiene sentido dentro de una transacción.
	FindByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockRecord, error)
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	FindByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error)
	FindAll(ctx context.Context) ([]*entity.StockRecord, error)
	FindByStatus(ctx context.Context, status entity.StockStatus) ([]*entity.StockRecord, error)

	Create(ctx context.Context, record *entity.StockRecord) error
	Save(ctx context.Context, record *entity.StockRecord) error
	Delete(ctx context.Context, id string) error

	// Consultas de reporte (solo registros ACTIVE).
	FindLowStock(ctx context.Context) ([]*entity.StockRecord, error)
	FindOutOfStock(ctx context.Context) ([]*entity.StockRecord, error)
	SearchByProductName(ctx context.Context, name string) ([]*entity.StockRecord, error)
	TotalAvailable(ctx context.Context, productID string) (int, error)
	TotalReserved(ctx context.Context, productID string) (int, error)
}
