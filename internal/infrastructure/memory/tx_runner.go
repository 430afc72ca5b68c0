package memory

import (
	"context"
	"sort"

	"github.com/dryfruits/inventory-api/internal/application/inventory"
	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner implementación en memoria de la transacción por producto.
// Toma el semáforo del producto (espera acotada -> domain.ErrBusy), ejecuta el
// callback contra repositorios que acumulan las escrituras, y si el callback
// termina sin error aplica todo bajo el lock de escritura del Store en un solo
// paso: ningún lector observa una aplicación parcial.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn dentro de la sección crítica del producto.
func (r *TxRunner) Run(ctx context.Context, productID string, fn func(
	records repository.StockRecordRepository,
	movements repository.StockMovementRepository,
) error) error {
	release, err := r.store.acquireProduct(ctx, productID)
	if err != nil {
		return err
	}
	defer release()

	tx := &memTx{
		store:   r.store,
		saved:   make(map[string]*entity.StockRecord),
		deleted: make(map[string]bool),
	}
	if err := fn(&txRecordRepo{tx: tx}, &txMovementRepo{tx: tx}); err != nil {
		return err // nada aplicado
	}
	tx.commit()
	return nil
}

// memTx escrituras pendientes de una transacción.
type memTx struct {
	store     *Store
	saved     map[string]*entity.StockRecord // creates y saves por ID
	deleted   map[string]bool
	movements []*entity.StockMovement
}

// commit aplica las escrituras acumuladas como unidad atómica.
func (tx *memTx) commit() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for id, rec := range tx.saved {
		tx.store.records[id] = rec
	}
	for id := range tx.deleted {
		delete(tx.store.records, id)
	}
	for _, m := range tx.movements {
		tx.store.createMovementLocked(m)
	}
}

// overlay aplica las escrituras pendientes sobre una lectura del estado
// confirmado, para que el callback vea sus propios cambios.
func (tx *memTx) overlay(productID string, recs []*entity.StockRecord) []*entity.StockRecord {
	seen := make(map[string]bool, len(recs))
	out := make([]*entity.StockRecord, 0, len(recs))
	for _, r := range recs {
		seen[r.ID] = true
		if tx.deleted[r.ID] {
			continue
		}
		if staged, ok := tx.saved[r.ID]; ok {
			out = append(out, cloneRecord(staged))
			continue
		}
		out = append(out, r)
	}
	// Registros creados dentro de la transacción.
	for id, staged := range tx.saved {
		if !seen[id] && staged.ProductID == productID {
			out = append(out, cloneRecord(staged))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out
}

// txRecordRepo repositorio de registros atado a la transacción.
type txRecordRepo struct {
	tx *memTx
}

func (r *txRecordRepo) FindByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	if r.tx.deleted[id] {
		return nil, nil
	}
	if staged, ok := r.tx.saved[id]; ok {
		return cloneRecord(staged), nil
	}
	return r.tx.store.FindByID(ctx, id)
}

func (r *txRecordRepo) FindByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	recs, err := r.tx.store.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return r.tx.overlay(productID, recs), nil
}

func (r *txRecordRepo) FindByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	// La exclusión ya la dio el semáforo del producto en Run.
	return r.FindByProduct(ctx, productID)
}

func (r *txRecordRepo) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	recs, err := r.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.WarehouseID == warehouseID {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *txRecordRepo) FindByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return r.tx.store.FindByWarehouse(ctx, warehouseID)
}

func (r *txRecordRepo) FindAll(ctx context.Context) ([]*entity.StockRecord, error) {
	return r.tx.store.FindAll(ctx)
}

func (r *txRecordRepo) FindByStatus(ctx context.Context, status entity.StockStatus) ([]*entity.StockRecord, error) {
	return r.tx.store.FindByStatus(ctx, status)
}

func (r *txRecordRepo) Create(ctx context.Context, record *entity.StockRecord) error {
	existing, err := r.FindByProductAndWarehouse(ctx, record.ProductID, record.WarehouseID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrAlreadyExists
	}
	r.tx.saved[record.ID] = cloneRecord(record)
	delete(r.tx.deleted, record.ID)
	return nil
}

func (r *txRecordRepo) Save(ctx context.Context, record *entity.StockRecord) error {
	existing, err := r.FindByID(ctx, record.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	r.tx.saved[record.ID] = cloneRecord(record)
	return nil
}

func (r *txRecordRepo) Delete(ctx context.Context, id string) error {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	delete(r.tx.saved, id)
	r.tx.deleted[id] = true
	return nil
}

func (r *txRecordRepo) FindLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	return r.tx.store.FindLowStock(ctx)
}

func (r *txRecordRepo) FindOutOfStock(ctx context.Context) ([]*entity.StockRecord, error) {
	return r.tx.store.FindOutOfStock(ctx)
}

func (r *txRecordRepo) SearchByProductName(ctx context.Context, name string) ([]*entity.StockRecord, error) {
	return r.tx.store.SearchByProductName(ctx, name)
}

func (r *txRecordRepo) TotalAvailable(ctx context.Context, productID string) (int, error) {
	recs, err := r.FindByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, rec := range recs {
		if rec.Status == entity.StatusActive {
			total += rec.AvailableQuantity
		}
	}
	return total, nil
}

func (r *txRecordRepo) TotalReserved(ctx context.Context, productID string) (int, error) {
	recs, err := r.FindByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, rec := range recs {
		if rec.Status == entity.StatusActive {
			total += rec.ReservedQuantity
		}
	}
	return total, nil
}

// txMovementRepo traza de auditoría atada a la transacción.
type txMovementRepo struct {
	tx *memTx
}

func (r *txMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.tx.movements = append(r.tx.movements, &c)
	return nil
}

func (r *txMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.tx.store.Movements().ListByProduct(ctx, productID, limit, offset)
}

func (r *txMovementRepo) ListByRecord(ctx context.Context, recordID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.tx.store.Movements().ListByRecord(ctx, recordID, limit, offset)
}
