package transfer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/pkg/metrics"
)

// CandidateItem fila de inventario ofrecida como origen de traslado.
type CandidateItem struct {
	Item entity.InventoryItem
}

// CandidateBin ubicación con inventario del producto buscado. Blocked indica que
// la ubicación está comprometida con otro traslado: se muestra por visibilidad
// pero no es seleccionable.
type CandidateBin struct {
	BinID   string
	BinCode string
	Kind    entity.BinKind
	Blocked bool
	Items   []CandidateItem
}

// CandidateWarehouse agrupa las ubicaciones candidatas de una bodega.
type CandidateWarehouse struct {
	WarehouseID   string
	WarehouseCode string
	Bins          []CandidateBin
}

// Matcher empareja la demanda insatisfecha de una bodega contra el inventario
// de las demás. La asignación adquiere bloqueos todo-o-nada: si una sola
// adquisición falla, no se crea ningún traslado y no queda ningún bloqueo.
type Matcher struct {
	inventory repository.InventoryRepository
	bins      repository.BinRepository
	locks     repository.BinLockRegistry
	txRunner  TxRunner
	notifier  ports.Notifier
}

// NewMatcher construye el emparejador de asignaciones.
func NewMatcher(
	inventory repository.InventoryRepository,
	bins repository.BinRepository,
	locks repository.BinLockRegistry,
	txRunner TxRunner,
	notifier ports.Notifier,
) *Matcher {
	return &Matcher{inventory: inventory, bins: bins, locks: locks, txRunner: txRunner, notifier: notifier}
}

// FindCandidates busca inventario del producto en todas las bodegas salvo la
// excluida (la que demanda), agrupado por bodega y ubicación. Solo filas con
// cantidad > 0; las ubicaciones bloqueadas se anotan y sus filas no son
// seleccionables.
func (m *Matcher) FindCandidates(ctx context.Context, productCode, excludeWarehouseID string) ([]CandidateWarehouse, error) {
	if productCode == "" {
		return nil, domain.ErrInvalidInput
	}
	rows, err := m.inventory.ListByProduct(ctx, productCode)
	if err != nil {
		return nil, fmt.Errorf("listar inventario por producto: %w", err)
	}

	// Agrupar bodega → ubicación sin depender del orden de las filas. Las
	// ubicaciones se acumulan como structs independientes y se materializan al
	// final; guardar punteros a elementos de un slice en crecimiento los deja
	// apuntando al arreglo abandonado tras una realocación.
	byWarehouse := make(map[string]*CandidateWarehouse)
	binsByWarehouse := make(map[string][]*CandidateBin)
	binsSeen := make(map[string]*CandidateBin)
	for _, row := range rows {
		if row.WarehouseID == excludeWarehouseID {
			continue
		}
		if row.Item.Quantity <= 0 {
			continue
		}
		if _, ok := byWarehouse[row.WarehouseID]; !ok {
			byWarehouse[row.WarehouseID] = &CandidateWarehouse{WarehouseID: row.WarehouseID, WarehouseCode: row.WarehouseCode}
		}
		bin, ok := binsSeen[row.Item.BinID]
		if !ok {
			locked, err := m.locks.IsLocked(ctx, row.Item.BinID)
			if err != nil {
				return nil, fmt.Errorf("consultar bloqueo de ubicación %s: %w", row.Item.BinID, err)
			}
			bin = &CandidateBin{
				BinID:   row.Item.BinID,
				BinCode: row.BinCode,
				Kind:    row.BinKind,
				Blocked: locked,
			}
			binsSeen[row.Item.BinID] = bin
			binsByWarehouse[row.WarehouseID] = append(binsByWarehouse[row.WarehouseID], bin)
		}
		bin.Items = append(bin.Items, CandidateItem{Item: row.Item})
	}

	result := make([]CandidateWarehouse, 0, len(byWarehouse))
	for id, wh := range byWarehouse {
		for _, bin := range binsByWarehouse[id] {
			wh.Bins = append(wh.Bins, *bin)
		}
		sort.Slice(wh.Bins, func(i, j int) bool { return wh.Bins[i].BinCode < wh.Bins[j].BinCode })
		result = append(result, *wh)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WarehouseCode < result[j].WarehouseCode })
	return result, nil
}

// Allocate crea un traslado PENDING por cada fila de inventario seleccionada,
// con la cantidad completa de la fila (no hay división parcial). Todos los
// registros de una misma llamada comparten un BatchID recién emitido.
//
// La adquisición de bloqueos es una unidad: si cualquier ubicación ya está
// comprometida (carrera con otro operador), se liberan los bloqueos tomados en
// esta llamada, no se crea ningún registro y se devuelve ErrAlreadyLocked.
func (m *Matcher) Allocate(ctx context.Context, demand entity.DemandTask, selectedInventoryIDs []string) ([]entity.TransferRecord, error) {
	if demand.ProductCode == "" || demand.DestinationWarehouseID == "" || demand.DestinationBinID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(selectedInventoryIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	batchID := uuid.New().String()
	now := time.Now()

	// heldByBin registra los bloqueos tomados en esta llamada. Dos filas
	// seleccionadas de la misma ubicación comparten un solo bloqueo.
	heldByBin := make(map[string]string)
	releaseHeld := func() {
		for binID, holder := range heldByBin {
			_ = m.locks.Release(ctx, binID, holder)
		}
	}

	records := make([]entity.TransferRecord, 0, len(selectedInventoryIDs))
	for _, invID := range selectedInventoryIDs {
		item, err := m.inventory.GetByID(ctx, invID)
		if err != nil {
			releaseHeld()
			return nil, err
		}
		if item == nil || item.IsPlaceholder() {
			releaseHeld()
			return nil, domain.ErrNotFound
		}
		if item.Quantity <= 0 {
			releaseHeld()
			return nil, domain.ErrInvalidQuantity
		}
		sourceBin, err := m.bins.GetByID(ctx, item.BinID)
		if err != nil {
			releaseHeld()
			return nil, err
		}
		if sourceBin == nil {
			releaseHeld()
			return nil, domain.ErrNotFound
		}
		transferID := uuid.New().String()
		if _, already := heldByBin[item.BinID]; !already {
			ok, err := m.locks.TryLock(ctx, item.BinID, transferID)
			if err != nil {
				releaseHeld()
				return nil, fmt.Errorf("bloquear ubicación %s: %w", item.BinID, err)
			}
			if !ok {
				releaseHeld()
				metrics.LockContentionTotal.Inc()
				metrics.AllocationsTotal.WithLabelValues("contention").Inc()
				return nil, domain.ErrAlreadyLocked
			}
			heldByBin[item.BinID] = transferID
		}

		records = append(records, entity.TransferRecord{
			ID:                     transferID,
			TaskID:                 demand.ID,
			SourceWarehouseID:      sourceBin.WarehouseID,
			SourceBinID:            item.BinID,
			DestinationWarehouseID: demand.DestinationWarehouseID,
			DestinationBinID:       demand.DestinationBinID,
			ProductCode:            item.ProductCode,
			BoxType:                item.BoxType,
			Quantity:               item.Quantity,
			BatchID:                &batchID,
			Status:                 entity.TransferPending,
			CreatedAt:              now,
			UpdatedAt:              now,
		})
	}

	// Persistencia atómica: los registros y la marca de la demanda van en una tx.
	err := m.txRunner.Run(ctx, func(
		transferRepo repository.TransferRepository,
		demandRepo repository.DemandRepository,
	) error {
		for i := range records {
			if err := transferRepo.Create(ctx, &records[i]); err != nil {
				return fmt.Errorf("crear traslado: %w", err)
			}
		}
		if demand.ID != nil {
			if err := demandRepo.UpdateStatus(ctx, *demand.ID, entity.DemandAllocated); err != nil {
				return fmt.Errorf("marcar demanda asignada: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		releaseHeld()
		metrics.AllocationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	for _, r := range records {
		m.notifier.OnTransferCreated(r)
	}
	metrics.AllocationsTotal.WithLabelValues("ok").Inc()
	return records, nil
}
