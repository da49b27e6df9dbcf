package checkout

import (
	"context"

	"github.com/jmcasares/tienda-api/internal/application/inventory"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con un
// repositorio de órdenes atado a esa tx (orden + líneas en un solo commit).
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(orderRepo repository.OrderRepository) error) error
}

// PreferenceResult es la respuesta normalizada de la pasarela al crear una
// preferencia de pago: una sola URL ya resuelta (sandbox o producción) y el
// id del proveedor. Aísla al resto del sistema de la forma cruda del proveedor.
type PreferenceResult struct {
	ID      string
	URL     string
	Sandbox bool
}

// PaymentInfo estado de un pago consultado al proveedor (camino del webhook).
// ExternalReference es el id interno de la orden que se envió al crear la preferencia.
type PaymentInfo struct {
	ID                string
	Status            string // approved, rejected, cancelled, refunded, in_process, pending
	ExternalReference string
}

// PaymentGateway adaptador de la pasarela de pagos.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, order *entity.Order) (*PreferenceResult, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

// Mailer envío del email de confirmación. Siempre best-effort: un error acá
// nunca aborta la creación de la orden.
type Mailer interface {
	SendOrderConfirmation(order *entity.Order) error
}

// StockApplier aplica mutaciones de stock con su movimiento de libro.
// Lo implementa inventory.StockLedger.
type StockApplier interface {
	Apply(ctx context.Context, in inventory.MovementInput) (*inventory.MovementResult, error)
}
