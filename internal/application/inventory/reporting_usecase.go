package inventory

import (
	"context"

	"github.com/dryfruits/inventory-api/internal/application/dto"
	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
)

// ReportingUseCase lecturas agregadas del ledger: disponibilidad total,
// stock bajo, stock agotado y búsqueda por nombre. Sin estado propio; cada
// método es una única lectura consistente del repositorio.
type ReportingUseCase struct {
	repo repository.StockRecordRepository
}

// NewReportingUseCase construye el caso de uso de reportes.
func NewReportingUseCase(repo repository.StockRecordRepository) *ReportingUseCase {
	return &ReportingUseCase{repo: repo}
}

// TotalAvailable suma el disponible de los registros ACTIVE del producto.
// Un producto sin registros devuelve 0, no error.
func (uc *ReportingUseCase) TotalAvailable(ctx context.Context, productID string) (int, error) {
	if productID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.repo.TotalAvailable(ctx, productID)
}

// TotalReserved suma el reservado de los registros ACTIVE del producto.
func (uc *ReportingUseCase) TotalReserved(ctx context.Context, productID string) (int, error) {
	if productID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.repo.TotalReserved(ctx, productID)
}

// CheckAvailability indica si el producto tiene al menos quantity disponible.
func (uc *ReportingUseCase) CheckAvailability(ctx context.Context, productID string, quantity int) (*dto.StockAvailabilityResponse, error) {
	if productID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	total, err := uc.repo.TotalAvailable(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockAvailabilityResponse{
		ProductID:         productID,
		RequestedQuantity: quantity,
		TotalAvailable:    total,
		Available:         total >= quantity,
	}, nil
}

// HasAvailableStock forma booleana de CheckAvailability.
func (uc *ReportingUseCase) HasAvailableStock(ctx context.Context, productID string, quantity int) (bool, error) {
	res, err := uc.CheckAvailability(ctx, productID, quantity)
	if err != nil {
		return false, err
	}
	return res.Available, nil
}

// LowStockItems registros ACTIVE con disponible en o por debajo del mínimo.
func (uc *ReportingUseCase) LowStockItems(ctx context.Context) ([]dto.StockRecordResponse, error) {
	recs, err := uc.repo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toStockRecordResponses(recs), nil
}

// OutOfStockItems registros ACTIVE sin disponible.
func (uc *ReportingUseCase) OutOfStockItems(ctx context.Context) ([]dto.StockRecordResponse, error) {
	recs, err := uc.repo.FindOutOfStock(ctx)
	if err != nil {
		return nil, err
	}
	return toStockRecordResponses(recs), nil
}

// SearchByName búsqueda por subcadena del nombre de producto, sin distinguir
// mayúsculas, solo sobre registros ACTIVE.
func (uc *ReportingUseCase) SearchByName(ctx context.Context, name string) ([]dto.StockRecordResponse, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	recs, err := uc.repo.SearchByProductName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toStockRecordResponses(recs), nil
}

// ListByStatus registros en un estado dado.
func (uc *ReportingUseCase) ListByStatus(ctx context.Context, status string) ([]dto.StockRecordResponse, error) {
	st := entity.StockStatus(status)
	if !st.Valid() {
		return nil, domain.ErrInvalidInput
	}
	recs, err := uc.repo.FindByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return toStockRecordResponses(recs), nil
}

// ListByWarehouse registros de una bodega.
func (uc *ReportingUseCase) ListByWarehouse(ctx context.Context, warehouseID string) ([]dto.StockRecordResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	recs, err := uc.repo.FindByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return toStockRecordResponses(recs), nil
}
