package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransferRepository puerto de registros de traslado.
type TransferRepository interface {
	GetByID(ctx context.Context, id string) (*entity.TransferRecord, error)
	Create(ctx context.Context, record *entity.TransferRecord) error
	// UpdateStatus persiste el nuevo estado y refresca updated_at.
	UpdateStatus(ctx context.Context, id string, status entity.TransferStatus) error
	ListByDestinationWarehouse(ctx context.Context, warehouseID string, status *entity.TransferStatus) ([]*entity.TransferRecord, error)
	ListByBatchID(ctx context.Context, batchID string) ([]*entity.TransferRecord, error)
	// ListLegacyBatch devuelve los registros sin BatchID que comparten la clave
	// sintética (ubicación origen + tarea).
	ListLegacyBatch(ctx context.Context, sourceBinID string, taskID *string) ([]*entity.TransferRecord, error)
	// CountActiveBySourceBin cuenta los registros PENDING/IN_PROCESS con esa ubicación origen.
	CountActiveBySourceBin(ctx context.Context, binID string) (int, error)
}
