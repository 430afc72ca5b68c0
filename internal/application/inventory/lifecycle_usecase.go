package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dryfruits/inventory-api/internal/application/dto"
	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
	"github.com/dryfruits/inventory-api/pkg/logger"
)

// LifecycleUseCase ciclo de vida administrativo de registros de stock:
// creación, edición de campos no reservados, borrado y lecturas. El contador
// reservado no es editable por esta vía; solo el coordinador lo mueve.
type LifecycleUseCase struct {
	records   repository.StockRecordRepository
	movements repository.StockMovementRepository
	txRunner  TxRunner
	events    EventPublisher
	log       *logger.Logger
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	records repository.StockRecordRepository,
	movements repository.StockMovementRepository,
	txRunner TxRunner,
	events EventPublisher,
	log *logger.Logger,
) *LifecycleUseCase {
	if events == nil {
		events = NopEventPublisher{}
	}
	return &LifecycleUseCase{records: records, movements: movements, txRunner: txRunner, events: events, log: log}
}

// Create crea un registro nuevo con reservado en cero. Falla con
// domain.ErrAlreadyExists si el par (producto, bodega) ya tiene registro.
func (uc *LifecycleUseCase) Create(ctx context.Context, in dto.CreateStockRecordRequest) (*dto.StockRecordResponse, error) {
	if in.ProductID == "" || in.ProductName == "" || in.WarehouseID == "" || in.WarehouseName == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.AvailableQuantity < 0 || in.MinimumStockLevel < 0 || in.MaximumStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.StatusActive
	if in.Status != "" {
		status = entity.StockStatus(in.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}

	existing, err := uc.records.FindByProductAndWarehouse(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	unitCost := decimal.Zero
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}
	now := time.Now()
	record := &entity.StockRecord{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		ProductName:       in.ProductName,
		WarehouseID:       in.WarehouseID,
		WarehouseName:     in.WarehouseName,
		AvailableQuantity: in.AvailableQuantity,
		ReservedQuantity:  0,
		MinimumStockLevel: in.MinimumStockLevel,
		MaximumStockLevel: in.MaximumStockLevel,
		UnitCost:          unitCost,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.records.Create(ctx, record); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("record_id", record.ID).
		Str("product_id", record.ProductID).
		Str("warehouse_id", record.WarehouseID).
		Msg("registro de stock creado")
	uc.notifyChange(ctx, record)
	return toStockRecordResponse(record), nil
}

// Update reemplaza los campos mutables presentes en el patch (disponible,
// umbrales, costo, estado) y refresca UpdatedAt. Falla con domain.ErrNotFound
// si el registro no existe. Corre dentro de la sección crítica del producto:
// la relectura bajo bloqueo garantiza que el reservado que un Reserve
// concurrente haya movido no se pisa con una copia vieja, y el registro y su
// fila de ajuste se aplican como una sola unidad o no se aplican.
func (uc *LifecycleUseCase) Update(ctx context.Context, id string, in dto.UpdateStockRecordRequest) (*dto.StockRecordResponse, error) {
	// Validación completa antes de escribir nada.
	if in.AvailableQuantity != nil && *in.AvailableQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MinimumStockLevel != nil && *in.MinimumStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MaximumStockLevel != nil && *in.MaximumStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	var status entity.StockStatus
	if in.Status != nil {
		status = entity.StockStatus(*in.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}

	existing, err := uc.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	var updated *entity.StockRecord
	err = uc.txRunner.Run(ctx, existing.ProductID, func(
		records repository.StockRecordRepository,
		movements repository.StockMovementRepository,
	) error {
		recs, err := records.FindByProductForUpdate(ctx, existing.ProductID)
		if err != nil {
			return err
		}
		var record *entity.StockRecord
		for _, rec := range recs {
			if rec.ID == id {
				record = rec
				break
			}
		}
		if record == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		if in.AvailableQuantity != nil {
			delta := *in.AvailableQuantity - record.AvailableQuantity
			record.AvailableQuantity = *in.AvailableQuantity
			if delta != 0 {
				mov := &entity.StockMovement{
					ID:          uuid.New().String(),
					RecordID:    record.ID,
					ProductID:   record.ProductID,
					WarehouseID: record.WarehouseID,
					Type:        entity.MovementTypeAdjustment,
					Quantity:    delta,
					CreatedAt:   now,
				}
				if err := movements.Create(ctx, mov); err != nil {
					return err
				}
			}
		}
		if in.MinimumStockLevel != nil {
			record.MinimumStockLevel = *in.MinimumStockLevel
		}
		if in.MaximumStockLevel != nil {
			record.MaximumStockLevel = *in.MaximumStockLevel
		}
		if in.UnitCost != nil {
			record.UnitCost = *in.UnitCost
		}
		if in.Status != nil {
			record.Status = status
		}
		record.UpdatedAt = now

		if err := records.Save(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("record_id", updated.ID).Msg("registro de stock actualizado")
	uc.notifyChange(ctx, updated)
	return toStockRecordResponse(updated), nil
}

// Delete elimina el registro de forma permanente (sin tombstone); la traza de
// movimientos conserva el historial previo.
func (uc *LifecycleUseCase) Delete(ctx context.Context, id string) error {
	record, err := uc.records.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}
	if err := uc.records.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.Info().
		Str("record_id", id).
		Str("product_id", record.ProductID).
		Msg("registro de stock eliminado")
	uc.notifyChange(ctx, record)
	return nil
}

// Get obtiene un registro por ID.
func (uc *LifecycleUseCase) Get(ctx context.Context, id string) (*dto.StockRecordResponse, error) {
	record, err := uc.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return toStockRecordResponse(record), nil
}

// List lista todos los registros.
func (uc *LifecycleUseCase) List(ctx context.Context) ([]dto.StockRecordResponse, error) {
	recs, err := uc.records.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toStockRecordResponses(recs), nil
}

// GetByProduct registros de un producto en todas las bodegas, ordenados por bodega.
func (uc *LifecycleUseCase) GetByProduct(ctx context.Context, productID string) ([]dto.StockRecordResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	recs, err := uc.records.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toStockRecordResponses(recs), nil
}

// GetByProductAndWarehouse registro puntual del par (producto, bodega).
func (uc *LifecycleUseCase) GetByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*dto.StockRecordResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	record, err := uc.records.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return toStockRecordResponse(record), nil
}

// Movements traza de auditoría de un registro.
func (uc *LifecycleUseCase) Movements(ctx context.Context, recordID string, limit, offset int) ([]dto.StockMovementResponse, error) {
	record, err := uc.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	movs, err := uc.movements.ListByRecord(ctx, recordID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.StockMovementResponse{
			ID:          m.ID,
			RecordID:    m.RecordID,
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Reference:   m.Reference,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

// notifyChange publica el cambio administrativo (best-effort).
func (uc *LifecycleUseCase) notifyChange(ctx context.Context, record *entity.StockRecord) {
	ev := StockEvent{
		Type:        EventRecordChanged,
		ProductID:   record.ProductID,
		WarehouseID: record.WarehouseID,
		RecordID:    record.ID,
		OccurredAt:  time.Now(),
	}
	if err := uc.events.Publish(ctx, ev); err != nil {
		uc.log.Error().Err(err).Str("record_id", record.ID).Msg("publicar cambio de registro")
	}
}

func toStockRecordResponse(r *entity.StockRecord) *dto.StockRecordResponse {
	if r == nil {
		return nil
	}
	return &dto.StockRecordResponse{
		ID:                r.ID,
		ProductID:         r.ProductID,
		ProductName:       r.ProductName,
		WarehouseID:       r.WarehouseID,
		WarehouseName:     r.WarehouseName,
		AvailableQuantity: r.AvailableQuantity,
		ReservedQuantity:  r.ReservedQuantity,
		TotalQuantity:     r.TotalQuantity(),
		MinimumStockLevel: r.MinimumStockLevel,
		MaximumStockLevel: r.MaximumStockLevel,
		UnitCost:          r.UnitCost,
		Status:            string(r.Status),
		StatusDescription: r.Status.Description(),
		LowStock:          r.IsLowStock(),
		OutOfStock:        r.IsOutOfStock(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toStockRecordResponses(recs []*entity.StockRecord) []dto.StockRecordResponse {
	out := make([]dto.StockRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, *toStockRecordResponse(r))
	}
	return out
}
