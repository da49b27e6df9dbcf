package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"
	MovementTypeOUT = "OUT"
)

// Razones de movimiento de stock.
const (
	MovementReasonSale       = "SALE"       // venta confirmada (orden completada)
	MovementReasonAdjustment = "ADJUSTMENT" // corrección de inventario
	MovementReasonManual     = "MANUAL"     // carga/descarga manual del admin
)

// ValidMovementReason indica si r pertenece al enum de razones.
func ValidMovementReason(r string) bool {
	switch r {
	case MovementReasonSale, MovementReasonAdjustment, MovementReasonManual:
		return true
	}
	return false
}

// StockMovement es una fila inmutable del libro de movimientos: nunca se
// actualiza ni se borra. La suma de movimientos firmados de un SKU debe
// conciliar siempre con su contador de stock actual.
type StockMovement struct {
	ID            string
	ProductID     string
	VariationID   string // vacío = movimiento sobre el producto
	Type          string // IN | OUT
	Reason        string // SALE | ADJUSTMENT | MANUAL
	Quantity      int    // siempre positivo; el signo lo da Type
	PreviousStock int
	NewStock      int
	OrderToken    string // access token de la orden cuando Reason = SALE
	CreatedAt     time.Time
}
