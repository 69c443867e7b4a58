package transfer

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Group agrupa registros de traslado en lotes coherentes para reporte y
// completado masivo. La clave es el BatchID si existe; si no, la clave
// sintética heredada (ubicación origen + tarea). El resultado es determinista:
// el mismo conjunto de registros, en cualquier orden de entrada, produce la
// misma membresía y el mismo orden interno.
func Group(records []entity.TransferRecord) []entity.Batch {
	byKey := make(map[entity.BatchKey]*entity.Batch)
	for _, r := range records {
		key := entity.BatchKeyFor(r)
		b, ok := byKey[key]
		if !ok {
			b = &entity.Batch{Key: key}
			byKey[key] = b
		}
		b.Records = append(b.Records, r)
	}

	batches := make([]entity.Batch, 0, len(byKey))
	for _, b := range byKey {
		sortBatchRecords(b.Records)
		products := make(map[string]struct{}, len(b.Records))
		for _, r := range b.Records {
			products[r.ProductCode] = struct{}{}
			b.TotalQuantity += r.Quantity
			if r.UpdatedAt.After(b.UpdatedAt) {
				b.UpdatedAt = r.UpdatedAt
			}
		}
		b.TotalProducts = len(products)
		batches = append(batches, *b)
	}

	// Lotes por updated_at más reciente, descendente. Desempate por el ID del
	// primer registro para mantener un orden total determinista.
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].UpdatedAt.Equal(batches[j].UpdatedAt) {
			return batches[i].UpdatedAt.After(batches[j].UpdatedAt)
		}
		return batches[i].Records[0].ID < batches[j].Records[0].ID
	})
	return batches
}

// sortBatchRecords ordena los productos de un lote: token numérico de la
// etiqueta de empaque ascendente (sin token parseable al final), desempate por
// la etiqueta en orden lexical y luego por código de producto.
func sortBatchRecords(records []entity.TransferRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, oki := boxSizeToken(records[i].BoxType)
		tj, okj := boxSizeToken(records[j].BoxType)
		if oki != okj {
			return oki // con token antes que sin token
		}
		if oki && okj && ti != tj {
			return ti < tj
		}
		if records[i].BoxType != records[j].BoxType {
			return records[i].BoxType < records[j].BoxType
		}
		if records[i].ProductCode != records[j].ProductCode {
			return records[i].ProductCode < records[j].ProductCode
		}
		return records[i].ID < records[j].ID
	})
}

// boxSizeToken extrae el primer número de la etiqueta de empaque ("Caja 12" → 12).
func boxSizeToken(label string) (int, bool) {
	start := -1
	for i, r := range label {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(label[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(label[start:])
		return n, err == nil
	}
	return 0, false
}

// MemberOutcome resultado del completado de un miembro del lote.
type MemberOutcome struct {
	TransferID string
	Err        error
}

// BatchService carga lotes por clave y los completa miembro a miembro.
type BatchService struct {
	transfers repository.TransferRepository
	lifecycle *Lifecycle
}

// NewBatchService construye el servicio de lotes.
func NewBatchService(transfers repository.TransferRepository, lifecycle *Lifecycle) *BatchService {
	return &BatchService{transfers: transfers, lifecycle: lifecycle}
}

// LoadBatch carga los registros que comparten la clave y los agrupa.
// Devuelve ErrNotFound si ningún registro coincide.
func (s *BatchService) LoadBatch(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	var (
		records []*entity.TransferRecord
		err     error
	)
	if key.IsLegacy() {
		var taskID *string
		if t := key.TaskID(); t != "" {
			taskID = &t
		}
		records, err = s.transfers.ListLegacyBatch(ctx, key.SourceBinID(), taskID)
	} else {
		records, err = s.transfers.ListByBatchID(ctx, key.BatchID())
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	flat := make([]entity.TransferRecord, 0, len(records))
	for _, r := range records {
		flat = append(flat, *r)
	}
	batches := Group(flat)
	if len(batches) != 1 {
		return nil, fmt.Errorf("clave de lote ambigua: %d lotes", len(batches))
	}
	return &batches[0], nil
}

// CompleteBatch completa secuencialmente cada miembro del lote. Un miembro
// PENDING se avanza por IN_PROCESS antes de completarlo (el operador confirma
// el movimiento físico del lote entero); uno ya COMPLETED cuenta como éxito
// para que el reintento de un lote mixto sea idempotente.
//
// No hay rollback compensatorio: los miembros que sí se completaron quedan
// completados. Si algún miembro falla se devuelven los resultados por miembro
// junto con ErrPartialFailure, y el llamador reintenta solo los fallidos.
func (s *BatchService) CompleteBatch(ctx context.Context, batch *entity.Batch) ([]MemberOutcome, error) {
	outcomes := make([]MemberOutcome, 0, len(batch.Records))
	failed := 0
	for _, r := range batch.Records {
		err := s.completeMember(ctx, r)
		if err != nil {
			failed++
		}
		outcomes = append(outcomes, MemberOutcome{TransferID: r.ID, Err: err})
	}
	if failed > 0 {
		return outcomes, fmt.Errorf("%w: %d de %d miembros fallaron", domain.ErrPartialFailure, failed, len(outcomes))
	}
	return outcomes, nil
}

func (s *BatchService) completeMember(ctx context.Context, r entity.TransferRecord) error {
	switch r.Status {
	case entity.TransferCompleted:
		return nil
	case entity.TransferPending:
		if err := s.lifecycle.Start(ctx, r.ID); err != nil {
			return err
		}
		return s.lifecycle.Complete(ctx, r.ID)
	default:
		return s.lifecycle.Complete(ctx, r.ID)
	}
}
