package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// BinRepository puerto de ubicaciones. La lista de códigos por defecto se
// reemplaza completa en cada escritura (es corta y ordenada).
type BinRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Bin, error)
	ListByWarehouse(ctx context.Context, warehouseID string, kind *entity.BinKind) ([]*entity.Bin, error)
	// UpdateDefaultCodes persiste la lista ordenada de códigos por defecto de la ubicación.
	UpdateDefaultCodes(ctx context.Context, binID string, codes []string) error
	// Update persiste código, tipo y bodega de la ubicación.
	Update(ctx context.Context, bin *entity.Bin) error
}
