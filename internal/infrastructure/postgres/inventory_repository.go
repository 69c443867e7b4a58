package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación del puerto InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const invColumns = `id, bin_id, product_code, quantity, box_type, updated_at`

// GetByID obtiene una fila de inventario por ID.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + invColumns + ` FROM inventory_items WHERE id = $1`
	var it entity.InventoryItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.BinID, &it.ProductCode, &it.Quantity, &it.BoxType, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return &it, nil
}

// ListByBin lista el inventario de una ubicación.
func (r *InventoryRepo) ListByBin(ctx context.Context, binID string) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + invColumns + ` FROM inventory_items WHERE bin_id = $1 ORDER BY product_code`
	return r.list(ctx, query, binID)
}

// ListByWarehouse lista el inventario de una bodega, opcionalmente de una sola ubicación.
func (r *InventoryRepo) ListByWarehouse(ctx context.Context, warehouseID string, binID *string) ([]*entity.InventoryItem, error) {
	query := `
		SELECT i.id, i.bin_id, i.product_code, i.quantity, i.box_type, i.updated_at
		FROM inventory_items i
		JOIN bins b ON b.id = i.bin_id
		WHERE b.warehouse_id = $1`
	args := []any{warehouseID}
	if binID != nil {
		query += ` AND i.bin_id = $2`
		args = append(args, *binID)
	}
	query += ` ORDER BY b.code, i.product_code`
	return r.list(ctx, query, args...)
}

// ListByProduct devuelve las filas del producto en cualquier bodega, con su
// ubicación y bodega, para la búsqueda de candidatos de traslado.
func (r *InventoryRepo) ListByProduct(ctx context.Context, productCode string) ([]repository.ProductLocation, error) {
	query := `
		SELECT i.id, i.bin_id, i.product_code, i.quantity, i.box_type, i.updated_at,
		       b.code, b.kind, w.id, w.code
		FROM inventory_items i
		JOIN bins b ON b.id = i.bin_id
		JOIN warehouses w ON w.id = b.warehouse_id
		WHERE i.product_code = $1
		ORDER BY w.code, b.code`
	rows, err := r.q.Query(ctx, query, productCode)
	if err != nil {
		return nil, fmt.Errorf("list inventory by product: %w", err)
	}
	defer rows.Close()

	var result []repository.ProductLocation
	for rows.Next() {
		var loc repository.ProductLocation
		if err := rows.Scan(
			&loc.Item.ID, &loc.Item.BinID, &loc.Item.ProductCode, &loc.Item.Quantity,
			&loc.Item.BoxType, &loc.Item.UpdatedAt,
			&loc.BinCode, &loc.BinKind, &loc.WarehouseID, &loc.WarehouseCode,
		); err != nil {
			return nil, fmt.Errorf("scan product location: %w", err)
		}
		result = append(result, loc)
	}
	return result, rows.Err()
}

// Create persiste una nueva fila de inventario. Una fila sin ID es el marcador
// de ubicación vacía y se rechaza.
func (r *InventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	if item.IsPlaceholder() {
		return fmt.Errorf("insert inventory item: fila marcador sin ID")
	}
	query := `
		INSERT INTO inventory_items (id, bin_id, product_code, quantity, box_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.BinID, item.ProductCode, item.Quantity, item.BoxType, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// Update actualiza una fila de inventario existente.
func (r *InventoryRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET product_code = $2, quantity = $3, box_type = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.ProductCode, item.Quantity, item.BoxType, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update inventory item: %s no existe", item.ID)
	}
	return nil
}

func (r *InventoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var result []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(&it.ID, &it.BinID, &it.ProductCode, &it.Quantity, &it.BoxType, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		result = append(result, &it)
	}
	return result, rows.Err()
}
