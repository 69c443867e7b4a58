package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ProductLocation fila de inventario enriquecida con su ubicación y bodega,
// para buscar candidatos de traslado a través de todas las bodegas.
type ProductLocation struct {
	Item          entity.InventoryItem
	BinCode       string
	BinKind       entity.BinKind
	WarehouseID   string
	WarehouseCode string
}

// InventoryRepository puerto del almacén autoritativo de inventario (CRUD simple).
type InventoryRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	ListByBin(ctx context.Context, binID string) ([]*entity.InventoryItem, error)
	ListByWarehouse(ctx context.Context, warehouseID string, binID *string) ([]*entity.InventoryItem, error)
	// ListByProduct devuelve todas las filas con el código dado, en cualquier bodega.
	ListByProduct(ctx context.Context, productCode string) ([]ProductLocation, error)
	Create(ctx context.Context, item *entity.InventoryItem) error
	Update(ctx context.Context, item *entity.InventoryItem) error
}
