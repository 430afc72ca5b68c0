package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dryfruits/inventory-api/internal/domain"
	"github.com/dryfruits/inventory-api/internal/domain/entity"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*Store)(nil)
var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// Store almacenamiento en memoria del ledger de stock. Implementa los puertos
// de registros y movimientos; se usa en desarrollo y tests en lugar de
// PostgreSQL. Las lecturas devuelven copias, nunca los punteros internos.
type Store struct {
	mu        sync.RWMutex
	records   map[string]*entity.StockRecord // por ID
	movements []*entity.StockMovement

	locks    sync.Map // productID -> chan struct{} con capacidad 1
	lockWait time.Duration
}

// NewStore construye el almacenamiento vacío. lockWait acota la espera por el
// bloqueo de producto; cero usa un valor razonable.
func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = 3 * time.Second
	}
	return &Store{
		records:  make(map[string]*entity.StockRecord),
		lockWait: lockWait,
	}
}

// acquireProduct toma la sección crítica del producto con espera acotada.
// Productos distintos usan semáforos distintos y no se bloquean entre sí.
func (s *Store) acquireProduct(ctx context.Context, productID string) (func(), error) {
	v, _ := s.locks.LoadOrStore(productID, make(chan struct{}, 1))
	sem := v.(chan struct{})

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, domain.ErrBusy
	case <-timer.C:
		return nil, domain.ErrBusy
	}
}

func cloneRecord(r *entity.StockRecord) *entity.StockRecord {
	c := *r
	return &c
}

// FindByID obtiene un registro por ID; nil si no existe.
func (s *Store) FindByID(_ context.Context, id string) (*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(r), nil
}

// FindByProduct registros de un producto ordenados por WarehouseID ascendente.
func (s *Store) FindByProduct(_ context.Context, productID string) ([]*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productRecordsLocked(productID), nil
}

// FindByProductForUpdate en memoria no bloquea filas: la exclusión la da el
// semáforo por producto que toma el TxRunner antes de invocar el callback.
func (s *Store) FindByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	return s.FindByProduct(ctx, productID)
}

func (s *Store) productRecordsLocked(productID string) []*entity.StockRecord {
	var out []*entity.StockRecord
	for _, r := range s.records {
		if r.ProductID == productID {
			out = append(out, cloneRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out
}

// FindByProductAndWarehouse registro puntual; nil si no existe.
func (s *Store) FindByProductAndWarehouse(_ context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ProductID == productID && r.WarehouseID == warehouseID {
			return cloneRecord(r), nil
		}
	}
	return nil, nil
}

// FindByWarehouse registros de una bodega ordenados por producto.
func (s *Store) FindByWarehouse(_ context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.StockRecord
	for _, r := range s.records {
		if r.WarehouseID == warehouseID {
			out = append(out, cloneRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// FindAll todos los registros, orden estable (producto, bodega).
func (s *Store) FindAll(_ context.Context) ([]*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.StockRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, cloneRecord(r))
	}
	sortRecords(out)
	return out, nil
}

// FindByStatus registros en un estado dado.
func (s *Store) FindByStatus(_ context.Context, status entity.StockStatus) ([]*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.StockRecord
	for _, r := range s.records {
		if r.Status == status {
			out = append(out, cloneRecord(r))
		}
	}
	sortRecords(out)
	return out, nil
}

// Create inserta un registro nuevo; duplicado (producto, bodega) o ID repetido
// devuelve domain.ErrAlreadyExists.
func (s *Store) Create(_ context.Context, record *entity.StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return domain.ErrAlreadyExists
	}
	for _, r := range s.records {
		if r.ProductID == record.ProductID && r.WarehouseID == record.WarehouseID {
			return domain.ErrAlreadyExists
		}
	}
	s.records[record.ID] = cloneRecord(record)
	return nil
}

// Save reemplaza un registro existente.
func (s *Store) Save(_ context.Context, record *entity.StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return domain.ErrNotFound
	}
	s.records[record.ID] = cloneRecord(record)
	return nil
}

// Delete elimina un registro por ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// FindLowStock registros ACTIVE con disponible <= mínimo.
func (s *Store) FindLowStock(_ context.Context) ([]*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.StockRecord
	for _, r := range s.records {
		if r.Status == entity.StatusActive && r.IsLowStock() {
			out = append(out, cloneRecord(r))
		}
	}
	sortRecords(out)
	return out, nil
}

// FindOutOfStock registros ACTIVE sin disponible.
func (s *Store) FindOutOfStock(_ context.Context) ([]*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.StockRecord
	for _, r := range s.records {
		if r.Status == entity.StatusActive && r.IsOutOfStock() {
			out = append(out, cloneRecord(r))
		}
	}
	sortRecords(out)
	return out, nil
}

// SearchByProductName subcadena sin distinguir mayúsculas, solo ACTIVE.
func (s *Store) SearchByProductName(_ context.Context, name string) ([]*entity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(name)
	var out []*entity.StockRecord
	for _, r := range s.records {
		if r.Status == entity.StatusActive && strings.Contains(strings.ToLower(r.ProductName), needle) {
			out = append(out, cloneRecord(r))
		}
	}
	sortRecords(out)
	return out, nil
}

// TotalAvailable suma del disponible ACTIVE del producto (0 si no hay registros).
func (s *Store) TotalAvailable(_ context.Context, productID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, r := range s.records {
		if r.ProductID == productID && r.Status == entity.StatusActive {
			total += r.AvailableQuantity
		}
	}
	return total, nil
}

// TotalReserved suma del reservado ACTIVE del producto.
func (s *Store) TotalReserved(_ context.Context, productID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, r := range s.records {
		if r.ProductID == productID && r.Status == entity.StatusActive {
			total += r.ReservedQuantity
		}
	}
	return total, nil
}

func (s *Store) createMovementLocked(m *entity.StockMovement) {
	c := *m
	s.movements = append(s.movements, &c)
}

// MovementRepo vista del Store como puerto de movimientos.
type MovementRepo struct {
	s *Store
}

// Movements devuelve el repositorio de movimientos sobre este Store.
func (s *Store) Movements() *MovementRepo {
	return &MovementRepo{s: s}
}

// Create agrega una fila a la traza de auditoría.
func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.createMovementLocked(m)
	return nil
}

// ListByProduct movimientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.filterMovements(func(m *entity.StockMovement) bool { return m.ProductID == productID }, limit, offset), nil
}

// ListByRecord movimientos de un registro, más recientes primero.
func (r *MovementRepo) ListByRecord(_ context.Context, recordID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.filterMovements(func(m *entity.StockMovement) bool { return m.RecordID == recordID }, limit, offset), nil
}

func (s *Store) filterMovements(keep func(*entity.StockMovement) bool, limit, offset int) []*entity.StockMovement {
	var matched []*entity.StockMovement
	for i := len(s.movements) - 1; i >= 0; i-- {
		if keep(s.movements[i]) {
			c := *s.movements[i]
			matched = append(matched, &c)
		}
	}
	if offset >= len(matched) {
		return nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched
}

func sortRecords(recs []*entity.StockRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].ProductID != recs[j].ProductID {
			return recs[i].ProductID < recs[j].ProductID
		}
		return recs[i].WarehouseID < recs[j].WarehouseID
	})
}
