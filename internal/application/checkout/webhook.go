package checkout

import (
	"context"
	"time"

	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

// PaymentWebhookUseCase procesa notificaciones de pago del proveedor.
// El proveedor manda el id del pago; el estado real y la referencia a la
// orden (external_reference) se consultan de vuelta a la pasarela, nunca se
// confía en el cuerpo de la notificación.
type PaymentWebhookUseCase struct {
	orderRepo repository.OrderRepository
	gateway   PaymentGateway
	log       *logger.Logger
}

// NewPaymentWebhookUseCase construye el caso de uso.
func NewPaymentWebhookUseCase(
	orderRepo repository.OrderRepository,
	gateway PaymentGateway,
	log *logger.Logger,
) *PaymentWebhookUseCase {
	return &PaymentWebhookUseCase{orderRepo: orderRepo, gateway: gateway, log: log}
}

// ProcessPaymentNotification consulta el pago y vuelca su estado sobre la
// orden referida. Una notificación para una orden desconocida o ya terminal
// se loguea y se descarta sin error: el proveedor reintenta ante non-2xx y
// acá no hay nada que reintentar.
func (uc *PaymentWebhookUseCase) ProcessPaymentNotification(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return domain.ErrInvalidInput
	}

	payment, err := uc.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	order, err := uc.orderRepo.GetByID(payment.ExternalReference)
	if err != nil {
		return err
	}
	if order == nil {
		uc.log.Warn().
			Str("payment_id", paymentID).
			Str("external_reference", payment.ExternalReference).
			Msg("notificación de pago para una orden desconocida")
		return nil
	}
	if entity.IsTerminalOrderStatus(order.Status) {
		uc.log.Info().
			Str("order", order.OrderNumber).
			Str("payment_status", payment.Status).
			Msg("notificación de pago sobre orden terminal, ignorada")
		return nil
	}

	switch payment.Status {
	case "approved":
		now := time.Now()
		order.Status = entity.OrderStatusProcessing
		order.Payment.Status = entity.PaymentStatusApproved
		order.Payment.TransactionID = payment.ID
		if order.Payment.ApprovedAt == nil {
			order.Payment.ApprovedAt = &now
		}
	case "rejected":
		order.Status = entity.OrderStatusRejected
		order.Payment.Status = entity.PaymentStatusRejected
		order.Payment.TransactionID = payment.ID
	case "cancelled":
		order.Status = entity.OrderStatusCancelled
		order.Payment.TransactionID = payment.ID
	case "refunded":
		order.Status = entity.OrderStatusCancelled
		order.Payment.Status = entity.PaymentStatusRefunded
		order.Payment.TransactionID = payment.ID
	default:
		// pending / in_process: sin cambio de estado todavía.
		uc.log.Debug().
			Str("order", order.OrderNumber).
			Str("payment_status", payment.Status).
			Msg("notificación de pago sin transición")
		return nil
	}

	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(order); err != nil {
		return err
	}
	uc.log.Info().
		Str("order", order.OrderNumber).
		Str("status", order.Status).
		Str("payment_status", order.Payment.Status).
		Msg("orden actualizada por notificación de pago")
	return nil
}
