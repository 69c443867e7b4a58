package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	query := `SELECT id, code, created_at FROM warehouses WHERE id = $1`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, id).Scan(&w.ID, &w.Code, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List lista todas las bodegas ordenadas por código.
func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	query := `SELECT id, code, created_at FROM warehouses ORDER BY code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var result []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		result = append(result, &w)
	}
	return result, rows.Err()
}
