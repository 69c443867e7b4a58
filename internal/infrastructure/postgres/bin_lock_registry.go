package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.BinLockRegistry = (*BinLockRegistry)(nil)

// BinLockRegistry registro de bloqueos sobre PostgreSQL. El check-and-set es un
// único INSERT ... ON CONFLICT DO NOTHING: de dos Allocate concurrentes por la
// misma ubicación, exactamente uno inserta la fila.
type BinLockRegistry struct {
	q Querier
}

// NewBinLockRegistry construye el adaptador. Pasar pool o tx (Querier).
func NewBinLockRegistry(q Querier) *BinLockRegistry {
	return &BinLockRegistry{q: q}
}

// TryLock intenta comprometer la ubicación con el traslado en una sola sentencia atómica.
func (r *BinLockRegistry) TryLock(ctx context.Context, binID, transferID string) (bool, error) {
	query := `
		INSERT INTO bin_locks (bin_id, transfer_id, acquired_at)
		VALUES ($1, $2, now())
		ON CONFLICT (bin_id) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query, binID, transferID)
	if err != nil {
		return false, fmt.Errorf("try lock bin: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Release libera la ubicación solo si transferID es su titular. Idempotente.
func (r *BinLockRegistry) Release(ctx context.Context, binID, transferID string) error {
	query := `DELETE FROM bin_locks WHERE bin_id = $1 AND transfer_id = $2`
	if _, err := r.q.Exec(ctx, query, binID, transferID); err != nil {
		return fmt.Errorf("release bin lock: %w", err)
	}
	return nil
}

// IsLocked indica si la ubicación está comprometida.
func (r *BinLockRegistry) IsLocked(ctx context.Context, binID string) (bool, error) {
	query := `SELECT 1 FROM bin_locks WHERE bin_id = $1`
	var one int
	err := r.q.QueryRow(ctx, query, binID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check bin lock: %w", err)
	}
	return true, nil
}

// Get devuelve el bloqueo vigente o nil si la ubicación está libre.
func (r *BinLockRegistry) Get(ctx context.Context, binID string) (*entity.BinLock, error) {
	query := `SELECT bin_id, transfer_id, acquired_at FROM bin_locks WHERE bin_id = $1`
	var lock entity.BinLock
	err := r.q.QueryRow(ctx, query, binID).Scan(&lock.BinID, &lock.TransferID, &lock.AcquiredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bin lock: %w", err)
	}
	return &lock, nil
}
