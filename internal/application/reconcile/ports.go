package reconcile

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con un
// repositorio de inventario atado a esa tx. Garantiza que las actualizaciones
// y creaciones de una reconciliación se confirmen o reviertan juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(inv repository.InventoryRepository) error) error
}
