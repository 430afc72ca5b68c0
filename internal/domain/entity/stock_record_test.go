package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
)

func record(available, reserved, minimum int) *entity.StockRecord {
	return &entity.StockRecord{
		ID:                "rec-1",
		ProductID:         "P1",
		ProductName:       "Almendras 500g",
		WarehouseID:       "W1",
		WarehouseName:     "Bodega Central",
		AvailableQuantity: available,
		ReservedQuantity:  reserved,
		MinimumStockLevel: minimum,
		MaximumStockLevel: 100,
		Status:            entity.StatusActive,
	}
}

func TestReserve_MueveDisponibleAReservado(t *testing.T) {
	r := record(10, 0, 2)
	require.NoError(t, r.Reserve(4))

	assert.Equal(t, 6, r.AvailableQuantity)
	assert.Equal(t, 4, r.ReservedQuantity)
	assert.Equal(t, 10, r.TotalQuantity(), "reservar conserva el total")
}

func TestReserve_InsuficienteNoMuta(t *testing.T) {
	r := record(3, 0, 0)
	err := r.Reserve(4)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, r.AvailableQuantity)
	assert.Equal(t, 0, r.ReservedQuantity)
}

func TestReserve_CantidadInvalida(t *testing.T) {
	r := record(3, 0, 0)
	require.ErrorIs(t, r.Reserve(0), domain.ErrInvalidInput)
	require.ErrorIs(t, r.Reserve(-1), domain.ErrInvalidInput)
}

func TestReleaseReserved_RestauraDisponible(t *testing.T) {
	r := record(6, 4, 0)
	require.NoError(t, r.ReleaseReserved(4))

	assert.Equal(t, 10, r.AvailableQuantity)
	assert.Equal(t, 0, r.ReservedQuantity)
}

func TestReleaseReserved_MasDeLoReservado(t *testing.T) {
	r := record(6, 4, 0)
	err := r.ReleaseReserved(5)

	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 6, r.AvailableQuantity)
	assert.Equal(t, 4, r.ReservedQuantity)
}

func TestConfirmSale_DescuentaSoloReservado(t *testing.T) {
	r := record(6, 4, 0)
	require.NoError(t, r.ConfirmSale(3))

	assert.Equal(t, 6, r.AvailableQuantity, "el disponible no cambia al confirmar venta")
	assert.Equal(t, 1, r.ReservedQuantity)
	assert.Equal(t, 7, r.TotalQuantity())
}

func TestConfirmSale_MasDeLoReservado(t *testing.T) {
	r := record(6, 2, 0)
	require.ErrorIs(t, r.ConfirmSale(3), domain.ErrInvalidState)
}

// El límite de stock bajo es inclusivo: disponible == mínimo es stock bajo.
func TestIsLowStock_LimiteInclusivo(t *testing.T) {
	assert.True(t, record(10, 0, 10).IsLowStock())
	assert.False(t, record(11, 0, 10).IsLowStock())
}

func TestIsOutOfStock(t *testing.T) {
	assert.True(t, record(0, 5, 0).IsOutOfStock())
	assert.False(t, record(1, 0, 0).IsOutOfStock())
}

func TestStockStatus_Valid(t *testing.T) {
	for _, s := range []entity.StockStatus{
		entity.StatusActive, entity.StatusInactive, entity.StatusDiscontinued,
		entity.StatusDamaged, entity.StatusExpired, entity.StatusQuarantine,
	} {
		assert.True(t, s.Valid(), string(s))
		assert.NotEmpty(t, s.Description(), string(s))
	}
	assert.False(t, entity.StockStatus("BROKEN").Valid())
}
