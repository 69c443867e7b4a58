package transfer_test

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. Solo implementan lo que los
// servicios de este paquete ejercitan; los métodos de listado devuelven copias
// para que los tests no compartan memoria con el "almacén".
// ──────────────────────────────────────────────────────────────────────────────

type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[string]entity.InventoryItem
	// locations enriquece cada item para ListByProduct.
	locations map[string]repository.ProductLocation
}

var _ repository.InventoryRepository = (*fakeInventoryRepo)(nil)

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		items:     make(map[string]entity.InventoryItem),
		locations: make(map[string]repository.ProductLocation),
	}
}

func (f *fakeInventoryRepo) put(loc repository.ProductLocation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[loc.Item.ID] = loc.Item
	f.locations[loc.Item.ID] = loc
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

func (f *fakeInventoryRepo) ListByWarehouse(_ context.Context, warehouseID string, binID *string) ([]*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.InventoryItem
	for id, loc := range f.locations {
		if loc.WarehouseID != warehouseID {
			continue
		}
		it := f.items[id]
		if binID != nil && it.BinID != *binID {
			continue
		}
		row := it
		out = append(out, &row)
	}
	return out, nil
}

func (f *fakeInventoryRepo) ListByProduct(_ context.Context, productCode string) ([]repository.ProductLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.ProductLocation
	for _, loc := range f.locations {
		if loc.Item.ProductCode == productCode {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ID] = *item
	return nil
}

func (f *fakeInventoryRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	f.items[item.ID] = *item
	return nil
}

type fakeBinRepo struct {
	mu   sync.Mutex
	bins map[string]entity.Bin
}

var _ repository.BinRepository = (*fakeBinRepo)(nil)

func newFakeBinRepo(bins ...entity.Bin) *fakeBinRepo {
	f := &fakeBinRepo{bins: make(map[string]entity.Bin)}
	for _, b := range bins {
		f.bins[b.ID] = b
	}
	return f
}

func (f *fakeBinRepo) GetByID(_ context.Context, id string) (*entity.Bin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bins[id]; ok {
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
	b, ok := f.bins[binID]
	if !ok {
		return domain.ErrNotFound
	}
	b.DefaultProductCodes = append([]string{}, codes...)
	f.bins[binID] = b
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

type fakeTransferRepo struct {
	mu      sync.Mutex
	records map[string]entity.TransferRecord
	// createErr hace fallar el siguiente Create, para simular una tx que revienta.
	createErr error
	// updateErr hace fallar UpdateStatus para los IDs listados.
	updateErr map[string]error
}

var _ repository.TransferRepository = (*fakeTransferRepo)(nil)

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{
		records:   make(map[string]entity.TransferRecord),
		updateErr: make(map[string]error),
	}
}

func (f *fakeTransferRepo) put(r entity.TransferRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[r.ID] = r
}

func (f *fakeTransferRepo) GetByID(_ context.Context, id string) (*entity.TransferRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeTransferRepo) Create(_ context.Context, record *entity.TransferRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.records[record.ID] = *record
	return nil
}

func (f *fakeTransferRepo) UpdateStatus(_ context.Context, id string, status entity.TransferStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.updateErr[id]; ok {
		return err
	}
	r, ok := f.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	f.records[id] = r
	return nil
}

func (f *fakeTransferRepo) ListByDestinationWarehouse(_ context.Context, warehouseID string, status *entity.TransferStatus) ([]*entity.TransferRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.TransferRecord
	for _, r := range f.records {
		if r.DestinationWarehouseID != warehouseID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		row := r
		out = append(out, &row)
	}
	return out, nil
}

func (f *fakeTransferRepo) ListByBatchID(_ context.Context, batchID string) ([]*entity.TransferRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.TransferRecord
	for _, r := range f.records {
		if r.BatchID != nil && *r.BatchID == batchID {
			row := r
			out = append(out, &row)
		}
	}
	return out, nil
}

func (f *fakeTransferRepo) ListLegacyBatch(_ context.Context, sourceBinID string, taskID *string) ([]*entity.TransferRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.TransferRecord
	for _, r := range f.records {
		if r.BatchID != nil && *r.BatchID != "" {
			continue
		}
		if r.SourceBinID != sourceBinID {
			continue
		}
		switch {
		case taskID == nil && r.TaskID != nil:
			continue
		case taskID != nil && (r.TaskID == nil || *r.TaskID != *taskID):
			continue
		}
		row := r
		out = append(out, &row)
	}
	return out, nil
}

func (f *fakeTransferRepo) CountActiveBySourceBin(_ context.Context, binID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.records {
		if r.SourceBinID == binID && r.Status.Active() {
			n++
		}
	}
	return n, nil
}

type fakeDemandRepo struct {
	mu    sync.Mutex
	tasks map[string]entity.DemandTask
}

var _ repository.DemandRepository = (*fakeDemandRepo)(nil)

func newFakeDemandRepo(tasks ...entity.DemandTask) *fakeDemandRepo {
	f := &fakeDemandRepo{tasks: make(map[string]entity.DemandTask)}
	for _, t := range tasks {
		if t.ID != nil {
			f.tasks[*t.ID] = t
		}
	}
	return f
}

func (f *fakeDemandRepo) GetByID(_ context.Context, id string) (*entity.DemandTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tasks[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (f *fakeDemandRepo) ListByWarehouse(_ context.Context, warehouseID string, status entity.DemandStatus) ([]*entity.DemandTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DemandTask
	for _, t := range f.tasks {
		if t.DestinationWarehouseID == warehouseID && t.Status == status {
			row := t
			out = append(out, &row)
		}
	}
	return out, nil
}

func (f *fakeDemandRepo) UpdateStatus(_ context.Context, id string, status entity.DemandStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	f.tasks[id] = t
	return nil
}

// fakeTxRunner pasa los repos tal cual. La atomicidad real la cubre la
// implementación de PostgreSQL; aquí solo importa que los errores de fn se
// propaguen sin aplicar efectos posteriores.
type fakeTxRunner struct {
	transfers *fakeTransferRepo
	demands   *fakeDemandRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	demandRepo repository.DemandRepository,
) error) error {
	return fn(f.transfers, f.demands)
}
