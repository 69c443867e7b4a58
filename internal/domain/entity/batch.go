package entity

import "time"

// BatchKey clave de agrupación de traslados. Unión etiquetada: un BatchID real
// o la clave sintética heredada (ubicación origen + tarea) de los registros
// creados antes de que existieran los lotes. Se mantiene como struct comparable
// en lugar de concatenar strings para evitar colisiones accidentales.
type BatchKey struct {
	legacy  bool
	batchID string
	binID   string
	taskID  string
}

// RealBatchKey clave basada en el BatchID del registro.
func RealBatchKey(batchID string) BatchKey {
	return BatchKey{batchID: batchID}
}

// LegacyBatchKey clave sintética para registros sin BatchID.
func LegacyBatchKey(sourceBinID string, taskID *string) BatchKey {
	k := BatchKey{legacy: true, binID: sourceBinID}
	if taskID != nil {
		k.taskID = *taskID
	}
	return k
}

// BatchKeyFor deriva la clave de agrupación de un registro de traslado.
func BatchKeyFor(r TransferRecord) BatchKey {
	if r.BatchID != nil && *r.BatchID != "" {
		return RealBatchKey(*r.BatchID)
	}
	return LegacyBatchKey(r.SourceBinID, r.TaskID)
}

// IsLegacy indica si la clave es la sintética heredada.
func (k BatchKey) IsLegacy() bool { return k.legacy }

// BatchID devuelve el ID real del lote ("" si la clave es heredada).
func (k BatchKey) BatchID() string { return k.batchID }

// SourceBinID devuelve la ubicación origen de una clave heredada.
func (k BatchKey) SourceBinID() string { return k.binID }

// TaskID devuelve la tarea de una clave heredada ("" si no hay).
func (k BatchKey) TaskID() string { return k.taskID }

// Batch agrupación derivada (no persistida) de traslados que comparten clave.
// Records queda ordenado por la regla de empaque; UpdatedAt es el más reciente
// entre los miembros.
type Batch struct {
	Key           BatchKey
	Records       []TransferRecord
	TotalProducts int
	TotalQuantity int64
	UpdatedAt     time.Time
}

// BinLock marca de exclusión mutua: la ubicación está comprometida con un traslado
// activo (PENDING o IN_PROCESS) y no puede ofrecerse como origen de otro.
type BinLock struct {
	BinID      string
	TransferID string
	AcquiredAt time.Time
}
