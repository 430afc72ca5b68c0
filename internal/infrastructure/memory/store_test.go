package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
	"github.com/dryfruits/inventory-api/internal/infrastructure/memory"
)

func record(id, productID, warehouseID string, available int) *entity.StockRecord {
	now := time.Now()
	return &entity.StockRecord{
		ID:                id,
		ProductID:         productID,
		ProductName:       "Pistachos 250g",
		WarehouseID:       warehouseID,
		WarehouseName:     "Bodega " + warehouseID,
		AvailableQuantity: available,
		MinimumStockLevel: 1,
		MaximumStockLevel: 50,
		Status:            entity.StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestStore_CreateYFindByID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)

	require.NoError(t, store.Create(ctx, record("r1", "P1", "W1", 5)))
	require.ErrorIs(t, store.Create(ctx, record("r2", "P1", "W1", 5)), domain.ErrAlreadyExists)

	rec, err := store.FindByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.AvailableQuantity)

	rec, err = store.FindByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

// Las lecturas devuelven copias: mutar el resultado no toca el estado interno.
func TestStore_LecturasDevuelvenCopias(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)
	require.NoError(t, store.Create(ctx, record("r1", "P1", "W1", 5)))

	rec, err := store.FindByID(ctx, "r1")
	require.NoError(t, err)
	rec.AvailableQuantity = 999

	fresh, err := store.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.AvailableQuantity)
}

func TestStore_FindByProductOrdenadoPorBodega(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)
	require.NoError(t, store.Create(ctx, record("r1", "P1", "W2", 1)))
	require.NoError(t, store.Create(ctx, record("r2", "P1", "W1", 2)))
	require.NoError(t, store.Create(ctx, record("r3", "P2", "W1", 3)))

	recs, err := store.FindByProduct(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "W1", recs[0].WarehouseID)
	assert.Equal(t, "W2", recs[1].WarehouseID)
}

func TestStore_SaveYDeleteExigenExistencia(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)

	require.ErrorIs(t, store.Save(ctx, record("r1", "P1", "W1", 5)), domain.ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, "r1"), domain.ErrNotFound)

	require.NoError(t, store.Create(ctx, record("r1", "P1", "W1", 5)))
	updated := record("r1", "P1", "W1", 9)
	require.NoError(t, store.Save(ctx, updated))

	rec, err := store.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 9, rec.AvailableQuantity)

	require.NoError(t, store.Delete(ctx, "r1"))
	rec, err = store.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

// Un callback que falla no deja ninguna escritura aplicada.
func TestTxRunner_ErrorDescartaTodo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)
	require.NoError(t, store.Create(ctx, record("r1", "P1", "W1", 5)))

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(ctx, "P1", func(records repository.StockRecordRepository, movements repository.StockMovementRepository) error {
		rec, err := records.FindByID(ctx, "r1")
		require.NoError(t, err)
		rec.AvailableQuantity = 0
		require.NoError(t, records.Save(ctx, rec))
		require.NoError(t, movements.Create(ctx, &entity.StockMovement{
			ID: "m1", RecordID: "r1", ProductID: "P1", WarehouseID: "W1",
			Type: entity.MovementTypeAdjustment, Quantity: -5, CreatedAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	rec, err := store.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 5, rec.AvailableQuantity)

	movs, err := store.Movements().ListByProduct(ctx, "P1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

// El callback ve sus propias escrituras, incluidas creaciones y borrados.
func TestTxRunner_CallbackVeSusEscrituras(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)
	require.NoError(t, store.Create(ctx, record("r1", "P1", "W1", 5)))

	err := memory.NewTxRunner(store).Run(ctx, "P1", func(records repository.StockRecordRepository, _ repository.StockMovementRepository) error {
		require.NoError(t, records.Create(ctx, record("r2", "P1", "W2", 3)))
		require.NoError(t, records.Delete(ctx, "r1"))

		recs, err := records.FindByProduct(ctx, "P1")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "W2", recs[0].WarehouseID)

		total, err := records.TotalAvailable(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		return nil
	})
	require.NoError(t, err)

	// Y tras el commit el estado confirmado coincide.
	recs, err := store.FindByProduct(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "r2", recs[0].ID)
}

func TestTxRunner_ProductoOcupadoExpiraEnBusy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(30 * time.Millisecond)
	runner := memory.NewTxRunner(store)

	hold := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = runner.Run(ctx, "P1", func(_ repository.StockRecordRepository, _ repository.StockMovementRepository) error {
			close(held)
			<-hold
			return nil
		})
	}()
	<-held
	defer close(hold)

	start := time.Now()
	err := runner.Run(ctx, "P1", func(_ repository.StockRecordRepository, _ repository.StockMovementRepository) error {
		return nil
	})
	require.ErrorIs(t, err, domain.ErrBusy)
	assert.Less(t, time.Since(start), 2*time.Second, "la espera es acotada")

	// Otro producto no comparte el semáforo.
	require.NoError(t, runner.Run(ctx, "P2", func(_ repository.StockRecordRepository, _ repository.StockMovementRepository) error {
		return nil
	}))
}

func TestTxRunner_ContextoCanceladoDevuelveBusy(t *testing.T) {
	store := memory.NewStore(5 * time.Second)
	runner := memory.NewTxRunner(store)

	hold := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = runner.Run(context.Background(), "P1", func(_ repository.StockRecordRepository, _ repository.StockMovementRepository) error {
			close(held)
			<-hold
			return nil
		})
	}()
	<-held
	defer close(hold)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := runner.Run(ctx, "P1", func(_ repository.StockRecordRepository, _ repository.StockMovementRepository) error {
		return nil
	})
	require.ErrorIs(t, err, domain.ErrBusy)
}

func TestMovements_ListByRecordPaginadoMasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)
	require.NoError(t, store.Create(ctx, record("r1", "P1", "W1", 10)))

	movs := store.Movements()
	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, movs.Create(ctx, &entity.StockMovement{
			ID:        string(rune('a' + i)),
			RecordID:  "r1",
			ProductID: "P1",
			Type:      entity.MovementTypeReserve,
			Quantity:  1,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	page, err := movs.ListByRecord(ctx, "r1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e", page[0].ID)
	assert.Equal(t, "d", page[1].ID)

	page, err = movs.ListByRecord(ctx, "r1", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].ID)
}
