package entity

import "time"

// TransferStatus estado del ciclo de vida de un traslado.
type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferInProcess TransferStatus = "IN_PROCESS"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferCanceled  TransferStatus = "CANCELED"
)

// transitions tabla de transiciones legales del ciclo de vida.
var transitions = map[TransferStatus][]TransferStatus{
	TransferPending:   {TransferInProcess, TransferCanceled},
	TransferInProcess: {TransferCompleted, TransferCanceled},
}

// CanTransitionTo indica si el paso de estado es legal según la tabla de transiciones.
// Nota: CANCELED solo es alcanzable desde PENDING vía Cancel; el ciclo de vida
// aplica esa restricción adicional (un traslado IN_PROCESS ya se movió físicamente).
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal indica si el estado es final (COMPLETED o CANCELED).
func (s TransferStatus) Terminal() bool {
	return s == TransferCompleted || s == TransferCanceled
}

// Active indica si el traslado sigue reteniendo el bloqueo de su ubicación origen.
func (s TransferStatus) Active() bool {
	return s == TransferPending || s == TransferInProcess
}

// Valid indica si el estado es uno de los conocidos.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferInProcess, TransferCompleted, TransferCanceled:
		return true
	}
	return false
}

// TransferRecord representa una unidad de trabajo: mover el contenido de una
// ubicación origen hacia una ubicación destino. TaskID y BatchID son opcionales
// (los registros previos al agrupado por lote no traen BatchID).
type TransferRecord struct {
	ID                     string
	TaskID                 *string
	SourceWarehouseID      string
	SourceBinID            string
	DestinationWarehouseID string
	DestinationBinID       string
	ProductCode            string
	BoxType                string
	Quantity               int64
	BatchID                *string
	Status                 TransferStatus
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
