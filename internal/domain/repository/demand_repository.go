package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DemandRepository puerto de tareas de demanda (colaborador externo del núcleo).
type DemandRepository interface {
	GetByID(ctx context.Context, id string) (*entity.DemandTask, error)
	ListByWarehouse(ctx context.Context, warehouseID string, status entity.DemandStatus) ([]*entity.DemandTask, error)
	UpdateStatus(ctx context.Context, id string, status entity.DemandStatus) error
}
