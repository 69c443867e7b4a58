package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// BinLockRegistry registro de ubicaciones comprometidas con un traslado en vuelo.
// TryLock debe ser una operación atómica de check-and-set: dos Allocate
// concurrentes sobre la misma ubicación tienen exactamente un ganador.
type BinLockRegistry interface {
	// TryLock intenta comprometer la ubicación con el traslado. Devuelve false
	// (sin error) si otra operación ya la tiene.
	TryLock(ctx context.Context, binID, transferID string) (bool, error)
	// Release libera la ubicación si transferID es su titular. Idempotente:
	// liberar una ubicación ya libre, o retenida por otro traslado, no hace nada.
	Release(ctx context.Context, binID, transferID string) error
	IsLocked(ctx context.Context, binID string) (bool, error)
	// Get devuelve el bloqueo vigente o nil si la ubicación está libre.
	Get(ctx context.Context, binID string) (*entity.BinLock, error)
}
