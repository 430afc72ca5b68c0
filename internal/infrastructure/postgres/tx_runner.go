package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dryfruits/inventory-api/internal/application/inventory"
	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. La sección
// crítica por producto la dan los row locks de FindByProductForUpdate: dos
// transacciones sobre el mismo producto se serializan en ese SELECT FOR
// UPDATE, mientras que productos distintos no comparten filas y no se
// bloquean. lock_timeout acota la espera y se reporta como domain.ErrBusy.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout cero usa 3s.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. El productID solo delimita la sección crítica; los row
// locks se toman cuando fn lee con FindByProductForUpdate.
func (r *TxRunner) Run(ctx context.Context, productID string, fn func(
	records repository.StockRecordRepository,
	movements repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET LOCAL aplica solo a esta transacción.
	timeoutMS := r.lockTimeout.Milliseconds()
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeoutMS)); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	if err := fn(NewStockRecordRepository(tx), NewStockMovementRepository(tx)); err != nil {
		if isLockTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			return domain.ErrBusy
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
