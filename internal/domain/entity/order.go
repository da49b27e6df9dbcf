package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una orden.
const (
	OrderStatusPending        = "pending"         // pago online iniciado, esperando al proveedor
	OrderStatusPendingPayment = "pending_payment" // efectivo: esperando pago presencial
	OrderStatusProcessing     = "processing"      // pago aprobado, en preparación
	OrderStatusCompleted      = "completed"       // entregada; descuenta stock una única vez
	OrderStatusPaymentFailed  = "payment_failed"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRejected       = "rejected"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:        true,
	OrderStatusPendingPayment: true,
	OrderStatusProcessing:     true,
	OrderStatusCompleted:      true,
	OrderStatusPaymentFailed:  true,
	OrderStatusCancelled:      true,
	OrderStatusRejected:       true,
}

// IsValidOrderStatus indica si s pertenece al enum de estados de orden.
func IsValidOrderStatus(s string) bool { return orderStatuses[s] }

// IsTerminalOrderStatus indica si el estado no admite más transiciones.
func IsTerminalOrderStatus(s string) bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRejected, OrderStatusPaymentFailed:
		return true
	}
	return false
}

// Estados del pago según el proveedor.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
	PaymentStatusRefunded = "refunded"
)

// PaymentMethodCash es el único método offline; el resto son métodos online
// que pasan por la pasarela.
const PaymentMethodCash = "efectivo"

// CashExpirationDays plazo para pagar en efectivo antes de que venza la orden.
const CashExpirationDays = 7

// Customer datos de contacto del comprador, congelados en la orden.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// OrderItem es la foto de una línea del catálogo al momento de crear la orden.
// Price es el precio unitario validado contra catálogo; una vez persistida la
// orden, las líneas no se recalculan contra el catálogo vivo.
// VariationID vacío significa que el producto mismo es el SKU vendible.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	VariationID string
	Name        string
	SKU         string
	Medida      string
	Price       decimal.Decimal
	Quantity    int
	Image       string
}

// PaymentDetails estado del pago asociado a la orden.
type PaymentDetails struct {
	Status         string
	Method         string
	TransactionID  string
	PreferenceID   string
	PaymentURL     string
	ApprovedAt     *time.Time
	ExpirationDate *time.Time // solo efectivo
	Error          string
}

// Order es la orden de compra. Identidad doble: OrderNumber legible para
// humanos y AccessToken opaco (capability) para consulta sin autenticación.
// Total queda como valor autoritativo pre-descuento; el total con descuento
// se deriva de TotalBeforeDiscount y DiscountPercentage.
// Version habilita concurrencia optimista en las escrituras.
type Order struct {
	ID                  string
	OrderNumber         string
	AccessToken         string
	Customer            Customer
	Items               []OrderItem
	Subtotal            decimal.Decimal
	VAT                 decimal.Decimal
	ShippingCost        decimal.Decimal
	Total               decimal.Decimal
	TotalBeforeDiscount *decimal.Decimal
	DiscountPercentage  *decimal.Decimal
	Status              string
	PaymentMethod       string
	Payment             PaymentDetails
	Notes               string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DisplayTotal devuelve el total a mostrar: con descuento aplicado si existe,
// nunca negativo.
func (o *Order) DisplayTotal() decimal.Decimal {
	if o.TotalBeforeDiscount == nil || o.DiscountPercentage == nil {
		return o.Total
	}
	base := *o.TotalBeforeDiscount
	discounted := base.Sub(base.Mul(*o.DiscountPercentage).Div(decimal.NewFromInt(100)))
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted.Round(2)
}
