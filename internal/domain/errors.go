package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrAlreadyLocked       = errors.New("la ubicación ya está comprometida en otro traslado")
	ErrInvalidTransition   = errors.New("transición de estado ilegal")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrDuplicateCode       = errors.New("el código ya existe en la ubicación destino")
	ErrPartialFailure      = errors.New("lote completado parcialmente")
	ErrIrreconcilableState = errors.New("compensación fallida, requiere intervención manual")
)
