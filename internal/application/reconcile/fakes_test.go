package reconcile_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos que los reconciliadores ejercitan.
// ──────────────────────────────────────────────────────────────────────────────

type fakeBinRepo struct {
	mu   sync.Mutex
	bins map[string]entity.Bin
	// failUpdateCodesFor hace fallar UpdateDefaultCodes para esos IDs, para
	// simular la caída a mitad de un movimiento.
	failUpdateCodesFor map[string]bool
	// codeWrites registra el historial de escrituras de códigos, por ubicación.
	codeWrites map[string][][]string
}

var _ repository.BinRepository = (*fakeBinRepo)(nil)

func newFakeBinRepo(bins ...entity.Bin) *fakeBinRepo {
	f := &fakeBinRepo{
		bins:               make(map[string]entity.Bin),
		failUpdateCodesFor: make(map[string]bool),
		codeWrites:         make(map[string][][]string),
	}
	for _, b := range bins {
		f.bins[b.ID] = b
	}
	return f
}

func (f *fakeBinRepo) put(b entity.Bin) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bins[b.ID] = b
}

func (f *fakeBinRepo) GetByID(_ context.Context, id string) (*entity.Bin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bins[id]; ok {
		b.DefaultProductCodes = append([]string{}, b.DefaultProductCodes...)
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBinRepo) ListByWarehouse(_ context.Context, warehouseID string, kind *entity.BinKind) ([]*entity.Bin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Bin
	for _, b := range f.bins {
		if b.WarehouseID != warehouseID {
			continue
		}
		if kind != nil && b.Kind != *kind {
			continue
		}
		row := b
		out = append(out, &row)
	}
	return out, nil
}

func (f *fakeBinRepo) UpdateDefaultCodes(_ context.Context, binID string, codes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateCodesFor[binID] {
		return errors.New("escritura rechazada")
	}
	b, ok := f.bins[binID]
	if !ok {
		return domain.ErrNotFound
	}
	b.DefaultProductCodes = append([]string{}, codes...)
	f.bins[binID] = b
	f.codeWrites[binID] = append(f.codeWrites[binID], append([]string{}, codes...))
	return nil
}

func (f *fakeBinRepo) Update(_ context.Context, bin *entity.Bin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bins[bin.ID]; !ok {
		return domain.ErrNotFound
	}
	f.bins[bin.ID] = *bin
	return nil
}

type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[string]entity.InventoryItem
	// failCreate y failUpdate simulan una tx que revienta a mitad del lote.
	failCreate bool
	failUpdate bool
}

var _ repository.InventoryRepository = (*fakeInventoryRepo)(nil)

func newFakeInventoryRepo(items ...entity.InventoryItem) *fakeInventoryRepo {
	f := &fakeInventoryRepo{items: make(map[string]entity.InventoryItem)}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeInventoryRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it, ok := f.items[id]; ok {
		return &it, nil
	}
	return nil, nil
}

func (f *fakeInventoryRepo) ListByBin(_ context.Context, binID string) ([]*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.InventoryItem
	for _, it := range f.items {
		if it.BinID == binID {
			row := it
			out = append(out, &row)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) ListByWarehouse(_ context.Context, _ string, _ *string) ([]*entity.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventoryRepo) ListByProduct(_ context.Context, _ string) ([]repository.ProductLocation, error) {
	return nil, nil
}

func (f *fakeInventoryRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("escritura rechazada")
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeInventoryRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errors.New("escritura rechazada")
	}
	if _, ok := f.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	f.items[item.ID] = *item
	return nil
}

// snapshot devuelve una copia del contenido actual, para comparar antes/después.
func (f *fakeInventoryRepo) snapshot() map[string]entity.InventoryItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]entity.InventoryItem, len(f.items))
	for id, it := range f.items {
		out[id] = it
	}
	return out
}

// fakeTxRunner simula la transacción con copia y restauración: si fn falla, el
// contenido del repositorio vuelve al estado previo.
type fakeTxRunner struct {
	inv *fakeInventoryRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(inv repository.InventoryRepository) error) error {
	before := f.inv.snapshot()
	if err := fn(f.inv); err != nil {
		f.inv.mu.Lock()
		f.inv.items = before
		f.inv.mu.Unlock()
		return err
	}
	return nil
}
