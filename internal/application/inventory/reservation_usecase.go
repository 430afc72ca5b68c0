package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
	"github.com/dryfruits/inventory-api/pkg/logger"
)

// ReservationUseCase coordina las transiciones de estado del ledger:
// reservar, liberar y confirmar venta. Cada operación es todo-o-nada sobre el
// conjunto de registros de un producto y corre bajo la sección crítica por
// producto que provee el TxRunner. Las bodegas se recorren siempre en orden
// ascendente de WarehouseID ("primera bodega primero"), de modo que
// operaciones repetidas son reproducibles.
type ReservationUseCase struct {
	txRunner TxRunner
	events   EventPublisher
	log      *logger.Logger
}

// NewReservationUseCase construye el coordinador.
func NewReservationUseCase(txRunner TxRunner, events EventPublisher, log *logger.Logger) *ReservationUseCase {
	if events == nil {
		events = NopEventPublisher{}
	}
	return &ReservationUseCase{txRunner: txRunner, events: events, log: log}
}

// Reserve reserva quantity unidades del producto, drenando disponible hacia
// reservado bodega por bodega sobre los registros ACTIVE. Si el total
// disponible no alcanza devuelve domain.ErrInsufficientStock sin mutar nada.
func (uc *ReservationUseCase) Reserve(ctx context.Context, productID string, quantity int, reference string) error {
	if productID == "" || quantity <= 0 {
		return domain.ErrInvalidInput
	}

	var pending []StockEvent
	err := uc.txRunner.Run(ctx, productID, func(
		records repository.StockRecordRepository,
		movements repository.StockMovementRepository,
	) error {
		recs, err := records.FindByProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		total := 0
		for _, rec := range recs {
			if rec.Status == entity.StatusActive {
				total += rec.AvailableQuantity
			}
		}
		if total < quantity {
			uc.log.Warn().
				Str("product_id", productID).
				Int("requested", quantity).
				Int("available", total).
				Msg("stock insuficiente para reservar")
			return domain.ErrInsufficientStock
		}

		now := time.Now()
		remaining := quantity
		for _, rec := range recs {
			if remaining == 0 {
				break
			}
			if rec.Status != entity.StatusActive || rec.AvailableQuantity <= 0 {
				continue
			}
			take := min(remaining, rec.AvailableQuantity)
			if err := rec.Reserve(take); err != nil {
				return err
			}
			rec.UpdatedAt = now
			if err := records.Save(ctx, rec); err != nil {
				return err
			}
			if err := movements.Create(ctx, newMovement(rec, entity.MovementTypeReserve, take, reference, now)); err != nil {
				return err
			}
			remaining -= take

			pending = append(pending, stockEvent(EventStockReserved, rec, take, reference, now))
			if rec.IsLowStock() {
				pending = append(pending, stockEvent(EventLowStockDetected, rec, rec.AvailableQuantity, "", now))
			}
		}

		// La pre-verificación garantizó suficiencia bajo la sección crítica;
		// quedar con remanente aquí es un defecto de control de concurrencia.
		if remaining != 0 {
			uc.log.Error().
				Str("product_id", productID).
				Int("remaining", remaining).
				Msg("reserva incompleta pese a pre-verificación suficiente")
			return domain.ErrInternalInconsistency
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("stock reservado")
	uc.publish(ctx, pending)
	return nil
}

// Release devuelve quantity unidades de reservado a disponible, mismo
// recorrido por bodegas, con tope por registro en su reservado. Si el
// producto no tiene registros devuelve domain.ErrNotFound; si el reservado
// total no alcanza, domain.ErrInvalidState (error del caller: liberar más de
// lo reservado) sin mutación alguna.
func (uc *ReservationUseCase) Release(ctx context.Context, productID string, quantity int, reference string) error {
	return uc.drainReserved(ctx, productID, quantity, reference, entity.MovementTypeRelease)
}

// ConfirmSale descuenta quantity del reservado sin tocar el disponible: la
// mercancía salió de la bodega. Mismas condiciones de fallo que Release.
func (uc *ReservationUseCase) ConfirmSale(ctx context.Context, productID string, quantity int, reference string) error {
	return uc.drainReserved(ctx, productID, quantity, reference, entity.MovementTypeSale)
}

// drainReserved recorrido común de Release y ConfirmSale sobre el reservado.
func (uc *ReservationUseCase) drainReserved(ctx context.Context, productID string, quantity int, reference, movementType string) error {
	if productID == "" || quantity <= 0 {
		return domain.ErrInvalidInput
	}

	var pending []StockEvent
	err := uc.txRunner.Run(ctx, productID, func(
		records repository.StockRecordRepository,
		movements repository.StockMovementRepository,
	) error {
		recs, err := records.FindByProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return domain.ErrNotFound
		}

		totalReserved := 0
		for _, rec := range recs {
			totalReserved += rec.ReservedQuantity
		}
		if totalReserved < quantity {
			uc.log.Warn().
				Str("product_id", productID).
				Str("movement", movementType).
				Int("requested", quantity).
				Int("reserved", totalReserved).
				Msg("reservado insuficiente")
			return domain.ErrInvalidState
		}

		now := time.Now()
		eventType := EventStockReleased
		if movementType == entity.MovementTypeSale {
			eventType = EventSaleConfirmed
		}

		remaining := quantity
		for _, rec := range recs {
			if remaining == 0 {
				break
			}
			if rec.ReservedQuantity <= 0 {
				continue
			}
			take := min(remaining, rec.ReservedQuantity)
			if movementType == entity.MovementTypeSale {
				err = rec.ConfirmSale(take)
			} else {
				err = rec.ReleaseReserved(take)
			}
			if err != nil {
				return err
			}
			rec.UpdatedAt = now
			if err := records.Save(ctx, rec); err != nil {
				return err
			}
			if err := movements.Create(ctx, newMovement(rec, movementType, take, reference, now)); err != nil {
				return err
			}
			remaining -= take
			pending = append(pending, stockEvent(eventType, rec, take, reference, now))
		}

		if remaining != 0 {
			uc.log.Error().
				Str("product_id", productID).
				Str("movement", movementType).
				Int("remaining", remaining).
				Msg("drenado incompleto pese a reservado suficiente")
			return domain.ErrInternalInconsistency
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("product_id", productID).
		Str("movement", movementType).
		Int("quantity", quantity).
		Msg("reservado drenado")
	uc.publish(ctx, pending)
	return nil
}

// publish emite los eventos acumulados; un fallo no revierte la operación.
func (uc *ReservationUseCase) publish(ctx context.Context, events []StockEvent) {
	for _, ev := range events {
		if err := uc.events.Publish(ctx, ev); err != nil {
			uc.log.Error().Err(err).Str("type", ev.Type).Msg("publicar evento de stock")
		}
	}
}

func newMovement(rec *entity.StockRecord, movementType string, quantity int, reference string, now time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:          uuid.New().String(),
		RecordID:    rec.ID,
		ProductID:   rec.ProductID,
		WarehouseID: rec.WarehouseID,
		Type:        movementType,
		Quantity:    quantity,
		Reference:   reference,
		CreatedAt:   now,
	}
}

func stockEvent(eventType string, rec *entity.StockRecord, quantity int, reference string, now time.Time) StockEvent {
	return StockEvent{
		Type:        eventType,
		ProductID:   rec.ProductID,
		WarehouseID: rec.WarehouseID,
		RecordID:    rec.ID,
		Quantity:    quantity,
		Reference:   reference,
		OccurredAt:  now,
	}
}
