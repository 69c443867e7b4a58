package entity

import "time"

// BinKind clasifica las ubicaciones dentro de una bodega.
type BinKind string

const (
	BinKindPickUp    BinKind = "PICK_UP"
	BinKindInventory BinKind = "INVENTORY"
	BinKindCart      BinKind = "CART"
	BinKindAisle     BinKind = "AISLE"
)

// Valid indica si el tipo de ubicación es uno de los conocidos.
func (k BinKind) Valid() bool {
	switch k {
	case BinKindPickUp, BinKindInventory, BinKindCart, BinKindAisle:
		return true
	}
	return false
}

// HoldsDefaultCodes indica si el tipo de ubicación admite códigos de producto por defecto.
// Solo PICK_UP e INVENTORY mantienen esa lista.
func (k BinKind) HoldsDefaultCodes() bool {
	return k == BinKindPickUp || k == BinKindInventory
}

// Bin representa una ubicación física dentro de una bodega.
// DefaultProductCodes es una lista ordenada; un código vive en una sola ubicación a la vez.
type Bin struct {
	ID                  string
	Code                string
	WarehouseID         string
	Kind                BinKind
	DefaultProductCodes []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasDefaultCode indica si el código ya pertenece a la lista de la ubicación.
func (b *Bin) HasDefaultCode(code string) bool {
	for _, c := range b.DefaultProductCodes {
		if c == code {
			return true
		}
	}
	return false
}
