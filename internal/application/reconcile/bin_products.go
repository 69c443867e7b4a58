package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// BinProducts mueve códigos de producto por defecto entre ubicaciones de forma
// atómica: el llamador nunca observa el código en ambas ubicaciones ni en ninguna.
type BinProducts struct {
	mu       sync.Mutex // serializa los movimientos para que dos concurrentes no pasen ambos el chequeo de duplicado
	bins     repository.BinRepository
	notifier ports.Notifier
}

// NewBinProducts construye el reconciliador de códigos por ubicación.
func NewBinProducts(bins repository.BinRepository, notifier ports.Notifier) *BinProducts {
	return &BinProducts{bins: bins, notifier: notifier}
}

// MoveProductCode mueve code de la lista de la ubicación origen a la destino,
// como una transacción lógica:
//  1. lee la lista destino; 2. falla con ErrDuplicateCode si el código ya está;
//  3. agrega y persiste en destino; 4. quita y persiste en origen;
//  5. si el paso 4 falla, deshace el paso 3 antes de devolver el error.
//
// Si la compensación misma falla se devuelve ErrIrreconcilableState: es el único
// caso que requiere intervención humana y no debe quedar silenciado.
func (r *BinProducts) MoveProductCode(ctx context.Context, sourceBinID, targetBinID, code string) error {
	if code == "" || sourceBinID == "" || targetBinID == "" || sourceBinID == targetBinID {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	target, err := r.bins.GetByID(ctx, targetBinID)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrNotFound
	}
	if target.HasDefaultCode(code) {
		return fmt.Errorf("%w: %q en %s", domain.ErrDuplicateCode, code, target.Code)
	}
	if !target.Kind.HoldsDefaultCodes() {
		return domain.ErrInvalidInput
	}

	source, err := r.bins.GetByID(ctx, sourceBinID)
	if err != nil {
		return err
	}
	if source == nil {
		return domain.ErrNotFound
	}
	if !source.HasDefaultCode(code) {
		return fmt.Errorf("%w: %q no está en %s", domain.ErrNotFound, code, source.Code)
	}

	targetCodes := append(append([]string{}, target.DefaultProductCodes...), code)
	if err := r.bins.UpdateDefaultCodes(ctx, targetBinID, targetCodes); err != nil {
		return fmt.Errorf("agregar código en destino: %w", err)
	}

	sourceCodes := make([]string, 0, len(source.DefaultProductCodes)-1)
	for _, c := range source.DefaultProductCodes {
		if c != code {
			sourceCodes = append(sourceCodes, c)
		}
	}
	if err := r.bins.UpdateDefaultCodes(ctx, sourceBinID, sourceCodes); err != nil {
		// Compensar: quitar el código recién agregado al destino.
		if undoErr := r.bins.UpdateDefaultCodes(ctx, targetBinID, target.DefaultProductCodes); undoErr != nil {
			return fmt.Errorf("%w: quitar en origen falló (%v) y la compensación en destino también (%v)",
				domain.ErrIrreconcilableState, err, undoErr)
		}
		return fmt.Errorf("quitar código en origen: %w", err)
	}

	r.notifier.OnBinCodesChanged(sourceBinID)
	r.notifier.OnBinCodesChanged(targetBinID)
	return nil
}

// RenameOrRetype cambia el código identificador y/o el tipo de la ubicación en
// una sola llamada. Solo emite una escritura si algún campo difiere del actual.
func (r *BinProducts) RenameOrRetype(ctx context.Context, binID string, newCode *string, newKind *entity.BinKind) error {
	if newCode == nil && newKind == nil {
		return domain.ErrInvalidInput
	}
	bin, err := r.bins.GetByID(ctx, binID)
	if err != nil {
		return err
	}
	if bin == nil {
		return domain.ErrNotFound
	}

	changed := false
	if newCode != nil && *newCode != "" && *newCode != bin.Code {
		bin.Code = *newCode
		changed = true
	}
	if newKind != nil && *newKind != bin.Kind {
		if !newKind.Valid() {
			return domain.ErrInvalidInput
		}
		bin.Kind = *newKind
		changed = true
	}
	if !changed {
		return nil
	}
	if err := r.bins.Update(ctx, bin); err != nil {
		return fmt.Errorf("actualizar ubicación: %w", err)
	}
	r.notifier.OnBinCodesChanged(binID)
	return nil
}
