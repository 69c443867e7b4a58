package entity

import "time"

// Warehouse representa una bodega física (multi-bodega). Datos de referencia inmutables.
type Warehouse struct {
	ID        string
	Code      string
	CreatedAt time.Time
}
