package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrInvalidStatus = errors.New("estado de orden inválido")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrConflict      = errors.New("conflicto con el estado actual")
)

// InsufficientStockError indica que un SKU no tiene stock suficiente para la
// cantidad solicitada. Lleva el detalle para que el cliente pueda ajustar su carrito.
type InsufficientStockError struct {
	SKU       string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d",
		e.Name, e.Requested, e.Available)
}

// Sub-tipos de error de la pasarela de pagos.
const (
	PaymentErrorConfig      = "configuration" // credenciales/configuración de la pasarela
	PaymentErrorInvalidData = "invalid_data"  // la pasarela rechazó los datos enviados
	PaymentErrorAmount      = "amount"        // monto inválido (total <= 0, moneda, etc.)
	PaymentErrorGateway     = "gateway"       // cualquier otra falla del proveedor
)

// PaymentError es el error normalizado de la pasarela de pagos. Message es el
// mensaje seguro para el usuario; el error crudo del proveedor solo se loguea.
type PaymentError struct {
	Kind    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "no se pudo procesar el pago, intentá nuevamente"
}

func (e *PaymentError) Unwrap() error { return e.Err }

// AsPaymentError extrae un *PaymentError de la cadena de errores, si lo hay.
func AsPaymentError(err error) (*PaymentError, bool) {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
