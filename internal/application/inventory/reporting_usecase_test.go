package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryfruits/inventory-api/internal/application/inventory"
	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/infrastructure/memory"
)

func seedRecord(t *testing.T, store *memory.Store, rec entity.StockRecord) {
	t.Helper()
	now := time.Now()
	if rec.ID == "" {
		rec.ID = rec.ProductID + "-" + rec.WarehouseID
	}
	if rec.Status == "" {
		rec.Status = entity.StatusActive
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	require.NoError(t, store.Create(context.Background(), &rec))
}

func TestTotales_SoloCuentanRegistrosActivos(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W1", AvailableQuantity: 5, ReservedQuantity: 2})
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W2", AvailableQuantity: 3, ReservedQuantity: 1})
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W3", AvailableQuantity: 9, ReservedQuantity: 9, Status: entity.StatusDamaged})
	seedRecord(t, store, entity.StockRecord{ProductID: "P2", WarehouseID: "W1", AvailableQuantity: 40})

	avail, err := uc.TotalAvailable(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 8, avail)

	reserved, err := uc.TotalReserved(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 3, reserved)
}

func TestTotales_ProductoSinRegistrosDevuelveCero(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)

	avail, err := uc.TotalAvailable(context.Background(), "P-fantasma")
	require.NoError(t, err)
	assert.Equal(t, 0, avail)
}

func TestCheckAvailability(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W1", AvailableQuantity: 5})
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W2", AvailableQuantity: 3})

	res, err := uc.CheckAvailability(context.Background(), "P1", 8)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 8, res.TotalAvailable)

	res, err = uc.CheckAvailability(context.Background(), "P1", 9)
	require.NoError(t, err)
	assert.False(t, res.Available)

	ok, err := uc.HasAvailableStock(context.Background(), "P1", 3)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = uc.CheckAvailability(context.Background(), "P1", 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El umbral de stock bajo es inclusivo: disponible == mínimo ya es alerta.
func TestLowStockItems_UmbralInclusivo(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W1", AvailableQuantity: 10, MinimumStockLevel: 10})
	seedRecord(t, store, entity.StockRecord{ProductID: "P2", WarehouseID: "W1", AvailableQuantity: 11, MinimumStockLevel: 10})
	seedRecord(t, store, entity.StockRecord{ProductID: "P3", WarehouseID: "W1", AvailableQuantity: 1, MinimumStockLevel: 10, Status: entity.StatusExpired})

	items, err := uc.LowStockItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].ProductID)
	assert.True(t, items[0].LowStock)
}

func TestOutOfStockItems(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W1", AvailableQuantity: 0, ReservedQuantity: 4})
	seedRecord(t, store, entity.StockRecord{ProductID: "P2", WarehouseID: "W1", AvailableQuantity: 1})
	seedRecord(t, store, entity.StockRecord{ProductID: "P3", WarehouseID: "W1", AvailableQuantity: 0, Status: entity.StatusInactive})

	items, err := uc.OutOfStockItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].ProductID)
	assert.True(t, items[0].OutOfStock)
}

func TestSearchByName_SinDistinguirMayusculas(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W1", ProductName: "Almendras Tostadas 500g", AvailableQuantity: 5})
	seedRecord(t, store, entity.StockRecord{ProductID: "P2", WarehouseID: "W1", ProductName: "Nueces del Nogal 1kg", AvailableQuantity: 5})
	seedRecord(t, store, entity.StockRecord{ProductID: "P3", WarehouseID: "W1", ProductName: "Almendras Naturales 1kg", AvailableQuantity: 5, Status: entity.StatusDiscontinued})

	items, err := uc.SearchByName(context.Background(), "ALMENDRAS")
	require.NoError(t, err)
	require.Len(t, items, 1, "solo registros ACTIVE")
	assert.Equal(t, "P1", items[0].ProductID)

	_, err = uc.SearchByName(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByStatus(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W1", AvailableQuantity: 5})
	seedRecord(t, store, entity.StockRecord{ProductID: "P2", WarehouseID: "W1", AvailableQuantity: 5, Status: entity.StatusQuarantine})

	items, err := uc.ListByStatus(context.Background(), "QUARANTINE")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)
	assert.Equal(t, "Cuarentena - en revisión de calidad", items[0].StatusDescription)

	_, err = uc.ListByStatus(context.Background(), "ROTO")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByWarehouse(t *testing.T) {
	store := memory.NewStore(0)
	uc := inventory.NewReportingUseCase(store)
	seedRecord(t, store, entity.StockRecord{ProductID: "P1", WarehouseID: "W1", AvailableQuantity: 5})
	seedRecord(t, store, entity.StockRecord{ProductID: "P2", WarehouseID: "W2", AvailableQuantity: 5})

	items, err := uc.ListByWarehouse(context.Background(), "W2")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)

	_, err = uc.ListByWarehouse(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
