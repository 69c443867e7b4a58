package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base: la bodega Norte demanda SKU-7; las bodegas Centro y Sur tienen
// inventario del producto en varias ubicaciones.
// ──────────────────────────────────────────────────────────────────────────────

const (
	whNorte  = "wh-norte"
	whCentro = "wh-centro"
	whSur    = "wh-sur"

	binB12     = "bin-b12"
	binB13     = "bin-b13"
	binDestino = "bin-destino"
)

func strPtr(s string) *string { return &s }

func seedCandidates(t *testing.T) (*fakeInventoryRepo, *fakeBinRepo) {
	t.Helper()
	inv := newFakeInventoryRepo()
	inv.put(repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-1", BinID: binB12, ProductCode: "SKU-7", Quantity: 10, BoxType: "Caja 12"},
		BinCode:       "B-12",
		BinKind:       entity.BinKindInventory,
		WarehouseID:   whCentro,
		WarehouseCode: "CENTRO",
	})
	inv.put(repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-2", BinID: binB13, ProductCode: "SKU-7", Quantity: 4, BoxType: "Caja 6"},
		BinCode:       "B-13",
		BinKind:       entity.BinKindInventory,
		WarehouseID:   whSur,
		WarehouseCode: "SUR",
	})
	// Fila agotada: no debe aparecer como candidata.
	inv.put(repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-3", BinID: "bin-vacia", ProductCode: "SKU-7", Quantity: 0},
		BinCode:       "B-99",
		BinKind:       entity.BinKindInventory,
		WarehouseID:   whSur,
		WarehouseCode: "SUR",
	})
	// Inventario del producto en la bodega que demanda: excluido.
	inv.put(repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-4", BinID: "bin-local", ProductCode: "SKU-7", Quantity: 3},
		BinCode:       "A-01",
		BinKind:       entity.BinKindPickUp,
		WarehouseID:   whNorte,
		WarehouseCode: "NORTE",
	})

	bins := newFakeBinRepo(
		entity.Bin{ID: binB12, Code: "B-12", WarehouseID: whCentro, Kind: entity.BinKindInventory},
		entity.Bin{ID: binB13, Code: "B-13", WarehouseID: whSur, Kind: entity.BinKindInventory},
		entity.Bin{ID: binDestino, Code: "D-01", WarehouseID: whNorte, Kind: entity.BinKindPickUp},
	)
	return inv, bins
}

func newMatcher(inv *fakeInventoryRepo, bins *fakeBinRepo, locks repository.BinLockRegistry, transfers *fakeTransferRepo, demands *fakeDemandRepo) *transfer.Matcher {
	return transfer.NewMatcher(inv, bins, locks, &fakeTxRunner{transfers: transfers, demands: demands}, ports.NopNotifier{})
}

func TestFindCandidates_ExcluyeBodegaDemandanteYFilasAgotadas(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	m := newMatcher(inv, bins, locks, newFakeTransferRepo(), newFakeDemandRepo())

	result, err := m.FindCandidates(context.Background(), "SKU-7", whNorte)
	require.NoError(t, err)

	require.Len(t, result, 2, "solo Centro y Sur deben ofrecer candidatos")
	assert.Equal(t, "CENTRO", result[0].WarehouseCode, "orden determinista por código de bodega")
	assert.Equal(t, "SUR", result[1].WarehouseCode)

	require.Len(t, result[0].Bins, 1)
	assert.Equal(t, "B-12", result[0].Bins[0].BinCode)
	assert.False(t, result[0].Bins[0].Blocked)

	for _, wh := range result {
		for _, bin := range wh.Bins {
			assert.NotEqual(t, "B-99", bin.BinCode, "una fila con cantidad 0 no es candidata")
		}
	}
}

func TestFindCandidates_AnotaUbicacionesBloqueadas(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	ok, err := locks.TryLock(context.Background(), binB12, "transfer-ajeno")
	require.NoError(t, err)
	require.True(t, ok)

	m := newMatcher(inv, bins, locks, newFakeTransferRepo(), newFakeDemandRepo())
	result, err := m.FindCandidates(context.Background(), "SKU-7", whNorte)
	require.NoError(t, err)

	var b12 *transfer.CandidateBin
	for i := range result {
		for j := range result[i].Bins {
			if result[i].Bins[j].BinCode == "B-12" {
				b12 = &result[i].Bins[j]
			}
		}
	}
	require.NotNil(t, b12, "la ubicación bloqueada debe seguir visible")
	assert.True(t, b12.Blocked, "pero anotada como bloqueada")
}

// orderedInventoryRepo fija el orden de ListByProduct, para ejercitar filas de
// una misma ubicación que llegan separadas por filas de otras ubicaciones.
type orderedInventoryRepo struct {
	*fakeInventoryRepo
	rows []repository.ProductLocation
}

func (o *orderedInventoryRepo) ListByProduct(_ context.Context, _ string) ([]repository.ProductLocation, error) {
	return append([]repository.ProductLocation{}, o.rows...), nil
}

func TestFindCandidates_FilasIntercaladasDeUnaMismaUbicacion(t *testing.T) {
	inv, bins := seedCandidates(t)
	// Tres filas de SKU-7 en la bodega Centro: las de B-12 llegan intercaladas
	// alrededor de la de B-13.
	filaB12a := repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-6", BinID: binB12, ProductCode: "SKU-7", Quantity: 10, BoxType: "Caja 12"},
		BinCode:       "B-12",
		BinKind:       entity.BinKindInventory,
		WarehouseID:   whCentro,
		WarehouseCode: "CENTRO",
	}
	filaB13 := repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-7", BinID: binB13, ProductCode: "SKU-7", Quantity: 4, BoxType: "Caja 6"},
		BinCode:       "B-13",
		BinKind:       entity.BinKindInventory,
		WarehouseID:   whCentro,
		WarehouseCode: "CENTRO",
	}
	filaB12b := repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-8", BinID: binB12, ProductCode: "SKU-7", Quantity: 6, BoxType: "Caja 6"},
		BinCode:       "B-12",
		BinKind:       entity.BinKindInventory,
		WarehouseID:   whCentro,
		WarehouseCode: "CENTRO",
	}
	ordered := &orderedInventoryRepo{
		fakeInventoryRepo: inv,
		rows:              []repository.ProductLocation{filaB12a, filaB13, filaB12b},
	}
	m := transfer.NewMatcher(ordered, bins, memory.NewBinLockRegistry(), &fakeTxRunner{transfers: newFakeTransferRepo(), demands: newFakeDemandRepo()}, ports.NopNotifier{})

	result, err := m.FindCandidates(context.Background(), "SKU-7", whNorte)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Bins, 2)

	total := 0
	items := make(map[string][]string)
	for _, bin := range result[0].Bins {
		for _, it := range bin.Items {
			items[bin.BinCode] = append(items[bin.BinCode], it.Item.ID)
			total++
		}
	}
	assert.Equal(t, 3, total, "ninguna fila debe perderse al agrupar")
	assert.ElementsMatch(t, []string{"item-6", "item-8"}, items["B-12"])
	assert.ElementsMatch(t, []string{"item-7"}, items["B-13"])
}

func TestFindCandidates_SinCodigoDeProducto(t *testing.T) {
	inv, bins := seedCandidates(t)
	m := newMatcher(inv, bins, memory.NewBinLockRegistry(), newFakeTransferRepo(), newFakeDemandRepo())

	_, err := m.FindCandidates(context.Background(), "", whNorte)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func demandaNorte() entity.DemandTask {
	return entity.DemandTask{
		ID:                     strPtr("task-1"),
		ProductCode:            "SKU-7",
		DestinationWarehouseID: whNorte,
		DestinationBinID:       binDestino,
		RequiredQuantity:       0, // todo lo disponible
		Status:                 entity.DemandOpen,
		CreatedAt:              time.Now(),
	}
}

func TestAllocate_CreaPendientesConLoteCompartido(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	transfers := newFakeTransferRepo()
	demands := newFakeDemandRepo(demandaNorte())
	m := newMatcher(inv, bins, locks, transfers, demands)

	records, err := m.Allocate(context.Background(), demandaNorte(), []string{"item-1", "item-2"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NotNil(t, records[0].BatchID)
	for _, r := range records {
		assert.Equal(t, entity.TransferPending, r.Status, "todo traslado nace PENDING")
		require.NotNil(t, r.BatchID)
		assert.Equal(t, *records[0].BatchID, *r.BatchID, "una asignación comparte un único BatchID")
		assert.Equal(t, whNorte, r.DestinationWarehouseID)
		assert.Equal(t, binDestino, r.DestinationBinID)
	}
	assert.Equal(t, int64(10), records[0].Quantity, "se traslada la cantidad completa de la fila")
	assert.Equal(t, whCentro, records[0].SourceWarehouseID, "la bodega origen se deriva de la ubicación")

	// Las dos ubicaciones origen quedan comprometidas.
	for _, binID := range []string{binB12, binB13} {
		locked, err := locks.IsLocked(context.Background(), binID)
		require.NoError(t, err)
		assert.True(t, locked)
	}

	// La demanda respaldada por tarea queda marcada ALLOCATED.
	task, err := demands.GetByID(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DemandAllocated, task.Status)
}

func TestAllocate_DosLlamadasEmitenLotesDistintos(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	transfers := newFakeTransferRepo()
	demands := newFakeDemandRepo(demandaNorte())
	m := newMatcher(inv, bins, locks, transfers, demands)

	first, err := m.Allocate(context.Background(), demandaNorte(), []string{"item-1"})
	require.NoError(t, err)
	second, err := m.Allocate(context.Background(), demandaNorte(), []string{"item-2"})
	require.NoError(t, err)

	assert.NotEqual(t, *first[0].BatchID, *second[0].BatchID, "cada acción de asignación emite su propio lote")
}

func TestAllocate_UbicacionYaBloqueada_TodoONada(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	transfers := newFakeTransferRepo()
	m := newMatcher(inv, bins, locks, transfers, newFakeDemandRepo(demandaNorte()))

	// Otro operador ya comprometió B-13.
	ok, err := locks.TryLock(context.Background(), binB13, "transfer-ajeno")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = m.Allocate(context.Background(), demandaNorte(), []string{"item-1", "item-2"})
	require.ErrorIs(t, err, domain.ErrAlreadyLocked)

	// B-12 se bloqueó primero en esta llamada y debe quedar liberada.
	locked, err := locks.IsLocked(context.Background(), binB12)
	require.NoError(t, err)
	assert.False(t, locked, "los bloqueos tomados en la llamada fallida se liberan")

	// B-13 conserva a su titular original.
	lock, err := locks.Get(context.Background(), binB13)
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.Equal(t, "transfer-ajeno", lock.TransferID)

	// Y no se persistió ningún registro.
	created, err := transfers.ListByDestinationWarehouse(context.Background(), whNorte, nil)
	require.NoError(t, err)
	assert.Empty(t, created, "una asignación fallida no deja traslados")
}

func TestAllocate_FalloDePersistenciaLiberaBloqueos(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	transfers := newFakeTransferRepo()
	transfers.createErr = errors.New("conexión perdida")
	m := newMatcher(inv, bins, locks, transfers, newFakeDemandRepo(demandaNorte()))

	_, err := m.Allocate(context.Background(), demandaNorte(), []string{"item-1", "item-2"})
	require.Error(t, err)

	for _, binID := range []string{binB12, binB13} {
		locked, lockErr := locks.IsLocked(context.Background(), binID)
		require.NoError(t, lockErr)
		assert.False(t, locked, "si la tx falla no debe quedar ningún bloqueo")
	}
}

func TestAllocate_ConcurrentesPorLaMismaUbicacion_UnSoloGanador(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	transfers := newFakeTransferRepo()
	m := newMatcher(inv, bins, locks, transfers, newFakeDemandRepo(demandaNorte()))

	const goroutines = 16
	results := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			_, err := m.Allocate(context.Background(), demandaNorte(), []string{"item-1"})
			results <- err
		}()
	}

	winners, losers := 0, 0
	for i := 0; i < goroutines; i++ {
		err := <-results
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domain.ErrAlreadyLocked):
			losers++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, winners, "exactamente una asignación concurrente gana la ubicación")
	assert.Equal(t, goroutines-1, losers)
}

func TestAllocate_Validaciones(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	m := newMatcher(inv, bins, locks, newFakeTransferRepo(), newFakeDemandRepo())

	t.Run("sin filas seleccionadas", func(t *testing.T) {
		_, err := m.Allocate(context.Background(), demandaNorte(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("fila inexistente", func(t *testing.T) {
		_, err := m.Allocate(context.Background(), demandaNorte(), []string{"no-existe"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("fila agotada", func(t *testing.T) {
		_, err := m.Allocate(context.Background(), demandaNorte(), []string{"item-3"})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("demanda incompleta", func(t *testing.T) {
		d := demandaNorte()
		d.DestinationBinID = ""
		_, err := m.Allocate(context.Background(), d, []string{"item-1"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	// Ninguna validación fallida debe dejar bloqueos residuales.
	for _, binID := range []string{binB12, binB13} {
		locked, err := locks.IsLocked(context.Background(), binID)
		require.NoError(t, err)
		assert.False(t, locked)
	}
}

func TestAllocate_DosFilasDeLaMismaUbicacionCompartenBloqueo(t *testing.T) {
	inv, bins := seedCandidates(t)
	// Segunda fila en B-12, otro empaque del mismo producto.
	inv.put(repository.ProductLocation{
		Item:          entity.InventoryItem{ID: "item-5", BinID: binB12, ProductCode: "SKU-7", Quantity: 6, BoxType: "Caja 6"},
		BinCode:       "B-12",
		BinKind:       entity.BinKindInventory,
		WarehouseID:   whCentro,
		WarehouseCode: "CENTRO",
	})
	locks := memory.NewBinLockRegistry()
	transfers := newFakeTransferRepo()
	m := newMatcher(inv, bins, locks, transfers, newFakeDemandRepo(demandaNorte()))

	records, err := m.Allocate(context.Background(), demandaNorte(), []string{"item-1", "item-5"})
	require.NoError(t, err, "dos filas de la misma ubicación no chocan entre sí")
	require.Len(t, records, 2)

	lock, err := locks.Get(context.Background(), binB12)
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.Equal(t, records[0].ID, lock.TransferID, "el titular del bloqueo es el primer registro")
}

func TestAllocate_DemandaEfimeraSinTarea(t *testing.T) {
	inv, bins := seedCandidates(t)
	locks := memory.NewBinLockRegistry()
	transfers := newFakeTransferRepo()
	m := newMatcher(inv, bins, locks, transfers, newFakeDemandRepo())

	d := demandaNorte()
	d.ID = nil // demanda sin tarea de respaldo
	records, err := m.Allocate(context.Background(), d, []string{"item-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].TaskID)
}
