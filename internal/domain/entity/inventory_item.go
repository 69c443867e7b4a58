package entity

import "time"

// InventoryItem representa una fila de inventario dentro de una ubicación.
// Una fila sin ID es un marcador de "la ubicación no contiene nada" y nunca se persiste.
// Tras cualquier reconciliación la cantidad debe ser > 0; una fila en cero es inválida.
type InventoryItem struct {
	ID          string
	BinID       string
	ProductCode string
	Quantity    int64
	BoxType     string // etiqueta libre de empaque; solo se usa como clave de orden secundaria
	UpdatedAt   time.Time
}

// IsPlaceholder indica si la fila es el marcador de ubicación vacía (sin ID).
func (i *InventoryItem) IsPlaceholder() bool {
	return i.ID == ""
}
