package entity

import "time"

// DemandStatus estado de una tarea de demanda.
type DemandStatus string

const (
	DemandOpen      DemandStatus = "OPEN"
	DemandAllocated DemandStatus = "ALLOCATED"
)

// DemandTask representa la necesidad de un producto en una ubicación destino.
// ID es nil para demanda efímera (p. ej. una proyección de stock bajo sin tarea de respaldo).
// RequiredQuantity 0 significa "todo lo disponible".
type DemandTask struct {
	ID                     *string
	ProductCode            string
	DestinationWarehouseID string
	DestinationBinID       string
	RequiredQuantity       int64
	Status                 DemandStatus
	CreatedAt              time.Time
}
