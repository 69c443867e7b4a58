package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AllocateRequest entrada para asignar inventario de otras bodegas a una demanda.
type AllocateRequest struct {
	TaskID                 *string  `json:"task_id"`
	ProductCode            string   `json:"product_code" validate:"required"`
	DestinationWarehouseID string   `json:"destination_warehouse_id" validate:"required"`
	DestinationBinID       string   `json:"destination_bin_id" validate:"required"`
	RequiredQuantity       int64    `json:"required_quantity"` // 0 = todo lo disponible
	SelectedInventoryIDs   []string `json:"selected_inventory_ids" validate:"required,min=1"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID                     string    `json:"id"`
	TaskID                 *string   `json:"task_id,omitempty"`
	SourceWarehouseID      string    `json:"source_warehouse_id"`
	SourceBinID            string    `json:"source_bin_id"`
	DestinationWarehouseID string    `json:"destination_warehouse_id"`
	DestinationBinID       string    `json:"destination_bin_id"`
	ProductCode            string    `json:"product_code"`
	BoxType                string    `json:"box_type,omitempty"`
	Quantity               int64     `json:"quantity"`
	BatchID                *string   `json:"batch_id,omitempty"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// ToTransferResponse convierte la entidad a DTO.
func ToTransferResponse(r entity.TransferRecord) TransferResponse {
	return TransferResponse{
		ID:                     r.ID,
		TaskID:                 r.TaskID,
		SourceWarehouseID:      r.SourceWarehouseID,
		SourceBinID:            r.SourceBinID,
		DestinationWarehouseID: r.DestinationWarehouseID,
		DestinationBinID:       r.DestinationBinID,
		ProductCode:            r.ProductCode,
		BoxType:                r.BoxType,
		Quantity:               r.Quantity,
		BatchID:                r.BatchID,
		Status:                 string(r.Status),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

// CandidateItemResponse fila de inventario candidata.
type CandidateItemResponse struct {
	InventoryID string `json:"inventory_id"`
	ProductCode string `json:"product_code"`
	Quantity    int64  `json:"quantity"`
	BoxType     string `json:"box_type,omitempty"`
}

// CandidateBinResponse ubicación candidata; Blocked = comprometida con otro
// traslado, visible pero no seleccionable.
type CandidateBinResponse struct {
	BinID   string                  `json:"bin_id"`
	BinCode string                  `json:"bin_code"`
	Kind    string                  `json:"kind"`
	Blocked bool                    `json:"blocked"`
	Items   []CandidateItemResponse `json:"items"`
}

// CandidateWarehouseResponse bodega con sus ubicaciones candidatas.
type CandidateWarehouseResponse struct {
	WarehouseID   string                 `json:"warehouse_id"`
	WarehouseCode string                 `json:"warehouse_code"`
	Bins          []CandidateBinResponse `json:"bins"`
}

// ToCandidatesResponse convierte el resultado del emparejador a DTO.
func ToCandidatesResponse(in []transfer.CandidateWarehouse) []CandidateWarehouseResponse {
	out := make([]CandidateWarehouseResponse, 0, len(in))
	for _, wh := range in {
		whDTO := CandidateWarehouseResponse{
			WarehouseID:   wh.WarehouseID,
			WarehouseCode: wh.WarehouseCode,
			Bins:          make([]CandidateBinResponse, 0, len(wh.Bins)),
		}
		for _, b := range wh.Bins {
			binDTO := CandidateBinResponse{
				BinID:   b.BinID,
				BinCode: b.BinCode,
				Kind:    string(b.Kind),
				Blocked: b.Blocked,
				Items:   make([]CandidateItemResponse, 0, len(b.Items)),
			}
			for _, it := range b.Items {
				binDTO.Items = append(binDTO.Items, CandidateItemResponse{
					InventoryID: it.Item.ID,
					ProductCode: it.Item.ProductCode,
					Quantity:    it.Item.Quantity,
					BoxType:     it.Item.BoxType,
				})
			}
			whDTO.Bins = append(whDTO.Bins, binDTO)
		}
		out = append(out, whDTO)
	}
	return out
}

// BatchKeyRequest identifica un lote: batch_id real, o la clave heredada
// (source_bin_id + task_id) para registros previos al agrupado por lote.
type BatchKeyRequest struct {
	BatchID     *string `json:"batch_id"`
	SourceBinID string  `json:"source_bin_id"`
	TaskID      *string `json:"task_id"`
}

// BatchResponse lote derivado de traslados que comparten clave.
type BatchResponse struct {
	BatchID       *string            `json:"batch_id,omitempty"`
	SourceBinID   string             `json:"source_bin_id,omitempty"`
	TaskID        string             `json:"task_id,omitempty"`
	TotalProducts int                `json:"total_products"`
	TotalQuantity int64              `json:"total_quantity"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Records       []TransferResponse `json:"records"`
}

// ToBatchResponse convierte un lote derivado a DTO.
func ToBatchResponse(b entity.Batch) BatchResponse {
	out := BatchResponse{
		TotalProducts: b.TotalProducts,
		TotalQuantity: b.TotalQuantity,
		UpdatedAt:     b.UpdatedAt,
		Records:       make([]TransferResponse, 0, len(b.Records)),
	}
	if b.Key.IsLegacy() {
		out.SourceBinID = b.Key.SourceBinID()
		out.TaskID = b.Key.TaskID()
	} else {
		id := b.Key.BatchID()
		out.BatchID = &id
	}
	for _, r := range b.Records {
		out.Records = append(out.Records, ToTransferResponse(r))
	}
	return out
}

// MemberOutcomeResponse resultado por miembro al completar un lote.
type MemberOutcomeResponse struct {
	TransferID string `json:"transfer_id"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// ToMemberOutcomes convierte los resultados por miembro a DTO.
func ToMemberOutcomes(in []transfer.MemberOutcome) []MemberOutcomeResponse {
	out := make([]MemberOutcomeResponse, 0, len(in))
	for _, o := range in {
		r := MemberOutcomeResponse{TransferID: o.TransferID, OK: o.Err == nil}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		out = append(out, r)
	}
	return out
}
