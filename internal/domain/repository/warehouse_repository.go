package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// WarehouseRepository puerto de lectura de bodegas (datos de referencia).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context) ([]*entity.Warehouse, error)
}
