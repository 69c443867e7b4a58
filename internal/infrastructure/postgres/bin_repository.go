package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.BinRepository = (*BinRepo)(nil)

// BinRepo implementación del puerto BinRepository sobre PostgreSQL.
// default_product_codes es un text[] que conserva el orden de la lista.
type BinRepo struct {
	q Querier
}

// NewBinRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBinRepository(q Querier) *BinRepo {
	return &BinRepo{q: q}
}

// GetByID obtiene una ubicación por ID.
func (r *BinRepo) GetByID(ctx context.Context, id string) (*entity.Bin, error) {
	query := `
		SELECT id, code, warehouse_id, kind, default_product_codes, created_at, updated_at
		FROM bins WHERE id = $1`
	var b entity.Bin
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Code, &b.WarehouseID, &b.Kind, &b.DefaultProductCodes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bin: %w", err)
	}
	return &b, nil
}

// ListByWarehouse lista las ubicaciones de una bodega, opcionalmente filtradas por tipo.
func (r *BinRepo) ListByWarehouse(ctx context.Context, warehouseID string, kind *entity.BinKind) ([]*entity.Bin, error) {
	query := `
		SELECT id, code, warehouse_id, kind, default_product_codes, created_at, updated_at
		FROM bins WHERE warehouse_id = $1`
	args := []any{warehouseID}
	if kind != nil {
		query += ` AND kind = $2`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY code`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	defer rows.Close()

	var result []*entity.Bin
	for rows.Next() {
		var b entity.Bin
		if err := rows.Scan(&b.ID, &b.Code, &b.WarehouseID, &b.Kind, &b.DefaultProductCodes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		result = append(result, &b)
	}
	return result, rows.Err()
}

// UpdateDefaultCodes reemplaza la lista ordenada de códigos por defecto.
func (r *BinRepo) UpdateDefaultCodes(ctx context.Context, binID string, codes []string) error {
	query := `UPDATE bins SET default_product_codes = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, binID, codes)
	if err != nil {
		return fmt.Errorf("update bin codes: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update bin codes: ubicación %s no existe", binID)
	}
	return nil
}

// Update persiste código, tipo y bodega de la ubicación.
func (r *BinRepo) Update(ctx context.Context, bin *entity.Bin) error {
	query := `
		UPDATE bins SET code = $2, kind = $3, warehouse_id = $4, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, bin.ID, bin.Code, string(bin.Kind), bin.WarehouseID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update bin: código %s duplicado en la bodega", bin.Code)
		}
		return fmt.Errorf("update bin: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update bin: ubicación %s no existe", bin.ID)
	}
	return nil
}
