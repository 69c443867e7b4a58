package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// InventoryItemResponse salida de una fila de inventario.
type InventoryItemResponse struct {
	ID          string    `json:"id"`
	BinID       string    `json:"bin_id"`
	ProductCode string    `json:"product_code"`
	Quantity    int64     `json:"quantity"`
	BoxType     string    `json:"box_type,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToInventoryItemResponse convierte la entidad a DTO.
func ToInventoryItemResponse(it entity.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:          it.ID,
		BinID:       it.BinID,
		ProductCode: it.ProductCode,
		Quantity:    it.Quantity,
		BoxType:     it.BoxType,
		UpdatedAt:   it.UpdatedAt,
	}
}

// WarehouseResponse salida de una bodega (datos de referencia).
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// DemandTaskResponse salida de una tarea de demanda.
type DemandTaskResponse struct {
	ID                     *string   `json:"id,omitempty"`
	ProductCode            string    `json:"product_code"`
	DestinationWarehouseID string    `json:"destination_warehouse_id"`
	DestinationBinID       string    `json:"destination_bin_id"`
	RequiredQuantity       int64     `json:"required_quantity"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"created_at"`
}

// ToDemandTaskResponse convierte la entidad a DTO.
func ToDemandTaskResponse(t entity.DemandTask) DemandTaskResponse {
	return DemandTaskResponse{
		ID:                     t.ID,
		ProductCode:            t.ProductCode,
		DestinationWarehouseID: t.DestinationWarehouseID,
		DestinationBinID:       t.DestinationBinID,
		RequiredQuantity:       t.RequiredQuantity,
		Status:                 string(t.Status),
		CreatedAt:              t.CreatedAt,
	}
}
