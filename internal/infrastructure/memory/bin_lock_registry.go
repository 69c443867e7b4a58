package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.BinLockRegistry = (*BinLockRegistry)(nil)

// BinLockRegistry registro de bloqueos en memoria. Check-and-set bajo mutex,
// apto para despliegues de un solo nodo y para tests; la variante PostgreSQL
// cubre despliegues multi-nodo.
type BinLockRegistry struct {
	mu    sync.Mutex
	locks map[string]entity.BinLock // binID → bloqueo vigente
}

// NewBinLockRegistry construye el registro en memoria.
func NewBinLockRegistry() *BinLockRegistry {
	return &BinLockRegistry{locks: make(map[string]entity.BinLock)}
}

// TryLock compromete la ubicación con el traslado si está libre. Atómico:
// de dos llamadas concurrentes por la misma ubicación gana exactamente una.
func (r *BinLockRegistry) TryLock(_ context.Context, binID, transferID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.locks[binID]; held {
		return false, nil
	}
	r.locks[binID] = entity.BinLock{BinID: binID, TransferID: transferID, AcquiredAt: time.Now()}
	return true, nil
}

// Release libera la ubicación solo si transferID es el titular. Idempotente.
func (r *BinLockRegistry) Release(_ context.Context, binID, transferID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lock, held := r.locks[binID]; held && lock.TransferID == transferID {
		delete(r.locks, binID)
	}
	return nil
}

// IsLocked indica si la ubicación está comprometida.
func (r *BinLockRegistry) IsLocked(_ context.Context, binID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, held := r.locks[binID]
	return held, nil
}

// Get devuelve el bloqueo vigente o nil.
func (r *BinLockRegistry) Get(_ context.Context, binID string) (*entity.BinLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lock, held := r.locks[binID]; held {
		l := lock
		return &l, nil
	}
	return nil, nil
}
