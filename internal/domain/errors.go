package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los callers deben ramificar con errors.Is, nunca por el texto del mensaje.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrAlreadyExists     = errors.New("ya existe inventario para ese producto en esa bodega")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock disponible insuficiente")
	ErrInvalidState      = errors.New("stock reservado insuficiente para la operación")
	ErrBusy              = errors.New("el producto está bloqueado por otra operación")

	// ErrInternalInconsistency indica que una post-condición falló pese a que la
	// pre-verificación pasó. Es un defecto de control de concurrencia y debe
	// propagarse como error interno, nunca como "stock insuficiente".
	ErrInternalInconsistency = errors.New("inconsistencia interna del ledger de stock")
)
