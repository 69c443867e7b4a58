package transfer

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para la creación de traslados de una asignación.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		demandRepo repository.DemandRepository,
	) error) error
}
