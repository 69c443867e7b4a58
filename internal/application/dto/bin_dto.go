package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/reconcile"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// BinResponse salida de una ubicación.
type BinResponse struct {
	ID                  string    `json:"id"`
	Code                string    `json:"code"`
	WarehouseID         string    `json:"warehouse_id"`
	Kind                string    `json:"kind"`
	DefaultProductCodes []string  `json:"default_product_codes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ToBinResponse convierte la entidad a DTO.
func ToBinResponse(b entity.Bin) BinResponse {
	return BinResponse{
		ID:                  b.ID,
		Code:                b.Code,
		WarehouseID:         b.WarehouseID,
		Kind:                string(b.Kind),
		DefaultProductCodes: b.DefaultProductCodes,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// MoveProductCodeRequest entrada para mover un código por defecto entre ubicaciones.
type MoveProductCodeRequest struct {
	SourceBinID string `json:"source_bin_id" validate:"required"`
	TargetBinID string `json:"target_bin_id" validate:"required"`
	Code        string `json:"code" validate:"required"`
}

// UpdateBinRequest entrada para renombrar y/o retipar una ubicación.
type UpdateBinRequest struct {
	Code *string `json:"code"`
	Kind *string `json:"kind"`
}

// RowEditRequest edición de una fila de inventario: actualización (item_id
// presente) o creación (item_id nulo).
type RowEditRequest struct {
	ItemID      *string `json:"item_id"`
	ProductCode string  `json:"product_code" validate:"required"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	BoxType     string  `json:"box_type"`
}

// ReconcileBinRequest lote de ediciones para el inventario de una ubicación.
type ReconcileBinRequest struct {
	Edits []RowEditRequest `json:"edits" validate:"required,min=1"`
}

// ToRowEdits convierte las ediciones del request al tipo del reconciliador.
func ToRowEdits(in []RowEditRequest) []reconcile.RowEdit {
	out := make([]reconcile.RowEdit, 0, len(in))
	for _, e := range in {
		out = append(out, reconcile.RowEdit{
			ItemID:      e.ItemID,
			ProductCode: e.ProductCode,
			Quantity:    e.Quantity,
			BoxType:     e.BoxType,
		})
	}
	return out
}

// ConflictResponse producto duplicado detectado; la reconciliación queda
// suspendida hasta que el llamador resuelva merge o add-as-new.
type ConflictResponse struct {
	ConflictID       string `json:"conflict_id"`
	BinID            string `json:"bin_id"`
	ProductCode      string `json:"product_code"`
	ExistingItemID   string `json:"existing_item_id"`
	ExistingQuantity int64  `json:"existing_quantity"`
	IncomingQuantity int64  `json:"incoming_quantity"`
}

// ToConflictResponse convierte un conflicto a DTO.
func ToConflictResponse(c reconcile.Conflict) ConflictResponse {
	return ConflictResponse{
		ConflictID:       c.ID,
		BinID:            c.BinID,
		ProductCode:      c.ProductCode,
		ExistingItemID:   c.ExistingItemID,
		ExistingQuantity: c.ExistingQuantity,
		IncomingQuantity: c.IncomingQuantity,
	}
}

// ResolveConflictRequest decisión del llamador: MERGE o ADD_AS_NEW.
type ResolveConflictRequest struct {
	Decision string `json:"decision" validate:"required,oneof=MERGE ADD_AS_NEW"`
}
