package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/metrics"
)

// RowEdit edición de una fila de inventario: actualización de una existente
// (ItemID no nil) o creación (ItemID nil).
type RowEdit struct {
	ItemID      *string
	ProductCode string
	Quantity    int64
	BoxType     string
}

// Decision resolución elegida por el llamador ante un producto duplicado.
type Decision string

const (
	// DecisionMerge suma la cantidad entrante a la fila existente.
	DecisionMerge Decision = "MERGE"
	// DecisionAddAsNew crea una segunda fila de todas formas.
	DecisionAddAsNew Decision = "ADD_AS_NEW"
)

// Conflict producto duplicado detectado durante la reconciliación. Lleva ambas
// cantidades para que el llamador decida; el reconciliador nunca adivina.
// La operación queda suspendida hasta ResolveConflict.
type Conflict struct {
	ID               string
	BinID            string
	ProductCode      string
	ExistingItemID   string
	ExistingQuantity int64
	IncomingQuantity int64
}

// pendingReconciliation estado suspendido de un ReconcileBin a la espera de
// decisiones. Vive en memoria: un reinicio lo descarta y el llamador reenvía.
type pendingReconciliation struct {
	binID     string
	updates   map[string]RowEdit // por ItemID
	creations []RowEdit
	conflicts []Conflict // pendientes, en orden de detección
}

// InventoryRows aplica ediciones masivas de cantidades/códigos al inventario de
// una ubicación. Valida el lote completo antes de escribir y detecta productos
// duplicados, resolviéndolos en dos fases (ReconcileBin → ResolveConflict).
type InventoryRows struct {
	mu        sync.Mutex
	pending   map[string]*pendingReconciliation // conflictID → operación suspendida
	inventory repository.InventoryRepository
	txRunner  TxRunner
	notifier  ports.Notifier
}

// NewInventoryRows construye el reconciliador de inventario.
func NewInventoryRows(inventory repository.InventoryRepository, txRunner TxRunner, notifier ports.Notifier) *InventoryRows {
	return &InventoryRows{
		pending:   make(map[string]*pendingReconciliation),
		inventory: inventory,
		txRunner:  txRunner,
		notifier:  notifier,
	}
}

// ReconcileBin valida y aplica las ediciones sobre la ubicación. Si una creación
// colisiona con el código post-edición de una fila existente, no escribe nada y
// devuelve el primer Conflict para que el llamador elija merge o add-as-new vía
// ResolveConflict. Con conflicto o con error, el inventario queda intacto.
func (r *InventoryRows) ReconcileBin(ctx context.Context, binID string, edits []RowEdit) (*Conflict, error) {
	if binID == "" || len(edits) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validación todo-o-nada del lote completo, antes de cualquier escritura.
	for i, e := range edits {
		if e.ProductCode == "" {
			return nil, fmt.Errorf("%w: fila %d sin código de producto", domain.ErrInvalidInput, i)
		}
		if e.Quantity <= 0 {
			return nil, fmt.Errorf("%w: fila %d con cantidad %d", domain.ErrInvalidQuantity, i, e.Quantity)
		}
	}

	existing, err := r.inventory.ListByBin(ctx, binID)
	if err != nil {
		return nil, fmt.Errorf("listar inventario de la ubicación: %w", err)
	}
	byID := make(map[string]*entity.InventoryItem, len(existing))
	for _, it := range existing {
		byID[it.ID] = it
	}

	updates := make(map[string]RowEdit)
	var creations []RowEdit
	for i, e := range edits {
		if e.ItemID == nil {
			creations = append(creations, e)
			continue
		}
		if _, ok := byID[*e.ItemID]; !ok {
			return nil, fmt.Errorf("%w: fila %d referencia un item inexistente en la ubicación", domain.ErrNotFound, i)
		}
		updates[*e.ItemID] = e
	}

	// Código post-edición de cada fila existente (las actualizaciones pueden
	// cambiar el código).
	postEditCode := func(it *entity.InventoryItem) string {
		if u, ok := updates[it.ID]; ok {
			return u.ProductCode
		}
		return it.ProductCode
	}

	var conflicts []Conflict
	remaining := creations[:0:0]
	for _, c := range creations {
		collided := false
		for _, it := range existing {
			if postEditCode(it) != c.ProductCode {
				continue
			}
			existingQty := it.Quantity
			if u, ok := updates[it.ID]; ok {
				existingQty = u.Quantity
			}
			conflicts = append(conflicts, Conflict{
				ID:               uuid.New().String(),
				BinID:            binID,
				ProductCode:      c.ProductCode,
				ExistingItemID:   it.ID,
				ExistingQuantity: existingQty,
				IncomingQuantity: c.Quantity,
			})
			collided = true
			break
		}
		if !collided {
			remaining = append(remaining, c)
		}
	}

	if len(conflicts) > 0 {
		p := &pendingReconciliation{
			binID:     binID,
			updates:   updates,
			creations: remaining,
			conflicts: conflicts,
		}
		r.mu.Lock()
		for _, c := range conflicts {
			r.pending[c.ID] = p
		}
		r.mu.Unlock()
		metrics.ReconcileConflictsTotal.Add(float64(len(conflicts)))
		first := conflicts[0]
		return &first, nil
	}

	if err := r.apply(ctx, binID, updates, remaining, byID); err != nil {
		return nil, err
	}
	return nil, nil
}

// ResolveConflict aplica la decisión sobre un conflicto suspendido. Si quedan
// más conflictos de la misma reconciliación devuelve el siguiente; cuando no
// queda ninguno, confirma todas las escrituras (actualizaciones y luego
// creaciones) de una vez.
func (r *InventoryRows) ResolveConflict(ctx context.Context, conflictID string, decision Decision) (*Conflict, error) {
	if decision != DecisionMerge && decision != DecisionAddAsNew {
		return nil, domain.ErrInvalidInput
	}

	r.mu.Lock()
	p, ok := r.pending[conflictID]
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	var resolved Conflict
	idx := -1
	for i, c := range p.conflicts {
		if c.ID == conflictID {
			resolved = c
			idx = i
			break
		}
	}
	if idx < 0 {
		delete(r.pending, conflictID)
		r.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	p.conflicts = append(p.conflicts[:idx], p.conflicts[idx+1:]...)
	delete(r.pending, conflictID)

	switch decision {
	case DecisionMerge:
		// Sumar la cantidad entrante sobre la fila existente (respetando una
		// actualización previa de la misma fila en este lote).
		qty := resolved.ExistingQuantity + resolved.IncomingQuantity
		u, had := p.updates[resolved.ExistingItemID]
		if !had {
			u = RowEdit{ItemID: &resolved.ExistingItemID, ProductCode: resolved.ProductCode, Quantity: qty}
		} else {
			u.Quantity = qty
		}
		p.updates[resolved.ExistingItemID] = u
	case DecisionAddAsNew:
		p.creations = append(p.creations, RowEdit{
			ProductCode: resolved.ProductCode,
			Quantity:    resolved.IncomingQuantity,
		})
	}

	if len(p.conflicts) > 0 {
		next := p.conflicts[0]
		r.mu.Unlock()
		return &next, nil
	}
	r.mu.Unlock()

	existing, err := r.inventory.ListByBin(ctx, p.binID)
	if err != nil {
		return nil, fmt.Errorf("listar inventario de la ubicación: %w", err)
	}
	byID := make(map[string]*entity.InventoryItem, len(existing))
	for _, it := range existing {
		byID[it.ID] = it
	}
	if err := r.apply(ctx, p.binID, p.updates, p.creations, byID); err != nil {
		return nil, err
	}
	return nil, nil
}

// apply confirma las escrituras: primero actualizaciones, luego creaciones,
// dentro de una transacción.
func (r *InventoryRows) apply(
	ctx context.Context,
	binID string,
	updates map[string]RowEdit,
	creations []RowEdit,
	byID map[string]*entity.InventoryItem,
) error {
	now := time.Now()
	err := r.txRunner.Run(ctx, func(inv repository.InventoryRepository) error {
		// Orden determinista de actualizaciones (map sin orden).
		ids := make([]string, 0, len(updates))
		for id := range updates {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			u := updates[id]
			it, ok := byID[id]
			if !ok {
				return domain.ErrNotFound
			}
			item := *it
			item.ProductCode = u.ProductCode
			item.Quantity = u.Quantity
			if u.BoxType != "" {
				item.BoxType = u.BoxType
			}
			item.UpdatedAt = now
			if err := inv.Update(ctx, &item); err != nil {
				return fmt.Errorf("actualizar item %s: %w", id, err)
			}
		}
		for _, c := range creations {
			item := entity.InventoryItem{
				ID:          uuid.New().String(),
				BinID:       binID,
				ProductCode: c.ProductCode,
				Quantity:    c.Quantity,
				BoxType:     c.BoxType,
				UpdatedAt:   now,
			}
			if err := inv.Create(ctx, &item); err != nil {
				return fmt.Errorf("crear item de %s: %w", c.ProductCode, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.ReconciliationsTotal.Inc()
	r.notifier.OnInventoryReconciled(binID)
	return nil
}
