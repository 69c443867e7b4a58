package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación del puerto TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `
	id, task_id, source_warehouse_id, source_bin_id,
	destination_warehouse_id, destination_bin_id,
	product_code, box_type, quantity, batch_id, status, created_at, updated_at`

// GetByID obtiene un traslado por ID.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.TransferRecord, error) {
	query := `SELECT` + transferColumns + ` FROM transfer_records WHERE id = $1`
	rec, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return rec, nil
}

// Create persiste un nuevo traslado.
func (r *TransferRepo) Create(ctx context.Context, record *entity.TransferRecord) error {
	query := `
		INSERT INTO transfer_records (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.TaskID, record.SourceWarehouseID, record.SourceBinID,
		record.DestinationWarehouseID, record.DestinationBinID,
		record.ProductCode, record.BoxType, record.Quantity,
		record.BatchID, string(record.Status), record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// UpdateStatus persiste el nuevo estado y refresca updated_at.
func (r *TransferRepo) UpdateStatus(ctx context.Context, id string, status entity.TransferStatus) error {
	query := `UPDATE transfer_records SET status = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update transfer status: traslado %s no existe", id)
	}
	return nil
}

// ListByDestinationWarehouse lista los traslados hacia una bodega, opcionalmente por estado.
func (r *TransferRepo) ListByDestinationWarehouse(ctx context.Context, warehouseID string, status *entity.TransferStatus) ([]*entity.TransferRecord, error) {
	query := `SELECT` + transferColumns + ` FROM transfer_records WHERE destination_warehouse_id = $1`
	args := []any{warehouseID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY updated_at DESC`
	return r.list(ctx, query, args...)
}

// ListByBatchID lista los traslados de un lote.
func (r *TransferRepo) ListByBatchID(ctx context.Context, batchID string) ([]*entity.TransferRecord, error) {
	query := `SELECT` + transferColumns + ` FROM transfer_records WHERE batch_id = $1`
	return r.list(ctx, query, batchID)
}

// ListLegacyBatch lista los traslados sin batch_id que comparten la clave
// sintética (ubicación origen + tarea).
func (r *TransferRepo) ListLegacyBatch(ctx context.Context, sourceBinID string, taskID *string) ([]*entity.TransferRecord, error) {
	query := `SELECT` + transferColumns + ` FROM transfer_records WHERE batch_id IS NULL AND source_bin_id = $1`
	args := []any{sourceBinID}
	if taskID != nil {
		query += ` AND task_id = $2`
		args = append(args, *taskID)
	} else {
		query += ` AND task_id IS NULL`
	}
	return r.list(ctx, query, args...)
}

// CountActiveBySourceBin cuenta los traslados PENDING/IN_PROCESS con esa ubicación origen.
func (r *TransferRepo) CountActiveBySourceBin(ctx context.Context, binID string) (int, error) {
	query := `
		SELECT count(*) FROM transfer_records
		WHERE source_bin_id = $1 AND status IN ('PENDING', 'IN_PROCESS')`
	var n int
	if err := r.q.QueryRow(ctx, query, binID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active transfers: %w", err)
	}
	return n, nil
}

func (r *TransferRepo) scanOne(row pgx.Row) (*entity.TransferRecord, error) {
	var rec entity.TransferRecord
	err := row.Scan(
		&rec.ID, &rec.TaskID, &rec.SourceWarehouseID, &rec.SourceBinID,
		&rec.DestinationWarehouseID, &rec.DestinationBinID,
		&rec.ProductCode, &rec.BoxType, &rec.Quantity,
		&rec.BatchID, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *TransferRepo) list(ctx context.Context, query string, args ...any) ([]*entity.TransferRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var result []*entity.TransferRecord
	for rows.Next() {
		rec, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
