package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/metrics"
)

// Lifecycle dirige el ciclo de vida de un traslado:
// PENDING → IN_PROCESS → COMPLETED, o → CANCELED. Al entrar a un estado
// terminal libera el bloqueo de la ubicación origen.
type Lifecycle struct {
	transfers repository.TransferRepository
	locks     repository.BinLockRegistry
	notifier  ports.Notifier
}

// NewLifecycle construye el ciclo de vida de traslados.
func NewLifecycle(
	transfers repository.TransferRepository,
	locks repository.BinLockRegistry,
	notifier ports.Notifier,
) *Lifecycle {
	return &Lifecycle{transfers: transfers, locks: locks, notifier: notifier}
}

// Start avanza el traslado de PENDING a IN_PROCESS (el trabajo físico comenzó).
func (l *Lifecycle) Start(ctx context.Context, transferID string) error {
	return l.transition(ctx, transferID, entity.TransferInProcess)
}

// Complete marca el traslado como COMPLETED. El llamador confirma que el
// movimiento físico ocurrió; no se revalida la cantidad contra la ubicación
// origen (ya fue descontada/bloqueada al asignar, y revalidar duplicaría el
// conteo entre sistemas de registro).
func (l *Lifecycle) Complete(ctx context.Context, transferID string) error {
	return l.transition(ctx, transferID, entity.TransferCompleted)
}

// Cancel cancela el traslado. Solo se permite desde PENDING: un traslado
// IN_PROCESS ya se movió físicamente y cancelarlo debe fallar.
func (l *Lifecycle) Cancel(ctx context.Context, transferID string) error {
	record, err := l.get(ctx, transferID)
	if err != nil {
		return err
	}
	if record.Status != entity.TransferPending {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, record.Status, entity.TransferCanceled)
	}
	return l.apply(ctx, record, entity.TransferCanceled)
}

func (l *Lifecycle) transition(ctx context.Context, transferID string, next entity.TransferStatus) error {
	record, err := l.get(ctx, transferID)
	if err != nil {
		return err
	}
	if !record.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, record.Status, next)
	}
	return l.apply(ctx, record, next)
}

func (l *Lifecycle) get(ctx context.Context, transferID string) (*entity.TransferRecord, error) {
	record, err := l.transfers.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (l *Lifecycle) apply(ctx context.Context, record *entity.TransferRecord, next entity.TransferStatus) error {
	old := record.Status
	if err := l.transfers.UpdateStatus(ctx, record.ID, next); err != nil {
		return fmt.Errorf("actualizar estado del traslado: %w", err)
	}
	record.Status = next
	record.UpdatedAt = time.Now()

	if next.Terminal() {
		// La ubicación se libera solo cuando ningún otro registro activo la
		// referencia: varias filas de una misma asignación pueden compartir
		// ubicación origen bajo un único bloqueo.
		active, err := l.transfers.CountActiveBySourceBin(ctx, record.SourceBinID)
		if err != nil {
			return fmt.Errorf("contar traslados activos de la ubicación: %w", err)
		}
		if active == 0 {
			lock, err := l.locks.Get(ctx, record.SourceBinID)
			if err != nil {
				return fmt.Errorf("consultar bloqueo de la ubicación origen: %w", err)
			}
			if lock != nil {
				if err := l.locks.Release(ctx, record.SourceBinID, lock.TransferID); err != nil {
					return fmt.Errorf("liberar ubicación origen: %w", err)
				}
			}
		}
	}

	l.notifier.OnTransferStateChanged(*record, old, next)
	metrics.TransferTransitionsTotal.WithLabelValues(string(next)).Inc()
	return nil
}
