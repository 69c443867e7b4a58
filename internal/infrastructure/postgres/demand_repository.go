package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DemandRepository = (*DemandRepo)(nil)

// DemandRepo implementación del puerto DemandRepository sobre PostgreSQL.
type DemandRepo struct {
	q Querier
}

// NewDemandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDemandRepository(q Querier) *DemandRepo {
	return &DemandRepo{q: q}
}

// GetByID obtiene una tarea de demanda por ID.
func (r *DemandRepo) GetByID(ctx context.Context, id string) (*entity.DemandTask, error) {
	query := `
		SELECT id, product_code, destination_warehouse_id, destination_bin_id,
		       required_quantity, status, created_at
		FROM demand_tasks WHERE id = $1`
	var t entity.DemandTask
	var taskID string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&taskID, &t.ProductCode, &t.DestinationWarehouseID, &t.DestinationBinID,
		&t.RequiredQuantity, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demand task: %w", err)
	}
	t.ID = &taskID
	return &t, nil
}

// ListByWarehouse lista las tareas de demanda de una bodega destino por estado.
func (r *DemandRepo) ListByWarehouse(ctx context.Context, warehouseID string, status entity.DemandStatus) ([]*entity.DemandTask, error) {
	query := `
		SELECT id, product_code, destination_warehouse_id, destination_bin_id,
		       required_quantity, status, created_at
		FROM demand_tasks
		WHERE destination_warehouse_id = $1 AND status = $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, warehouseID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list demand tasks: %w", err)
	}
	defer rows.Close()

	var result []*entity.DemandTask
	for rows.Next() {
		var t entity.DemandTask
		var taskID string
		if err := rows.Scan(
			&taskID, &t.ProductCode, &t.DestinationWarehouseID, &t.DestinationBinID,
			&t.RequiredQuantity, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan demand task: %w", err)
		}
		t.ID = &taskID
		result = append(result, &t)
	}
	return result, rows.Err()
}

// UpdateStatus actualiza el estado de la tarea.
func (r *DemandRepo) UpdateStatus(ctx context.Context, id string, status entity.DemandStatus) error {
	query := `UPDATE demand_tasks SET status = $2 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("update demand status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update demand status: tarea %s no existe", id)
	}
	return nil
}
