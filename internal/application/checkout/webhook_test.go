package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

type webhookFixture struct {
	uc        *checkout.PaymentWebhookUseCase
	orderRepo *fakeOrderRepo
	gateway   *fakeGateway
}

func newWebhookFixture(t *testing.T, orderStatus string, payment *checkout.PaymentInfo) *webhookFixture {
	t.Helper()
	orderRepo := newFakeOrderRepo()
	require.NoError(t, orderRepo.Create(&entity.Order{
		ID:          "order-1",
		OrderNumber: "ORD-00001-01",
		Status:      orderStatus,
		Payment:     entity.PaymentDetails{Status: entity.PaymentStatusPending},
	}))
	gateway := &fakeGateway{payment: payment}
	return &webhookFixture{
		uc:        checkout.NewPaymentWebhookUseCase(orderRepo, gateway, logger.Nop()),
		orderRepo: orderRepo,
		gateway:   gateway,
	}
}

func TestWebhook_PagoAprobado(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusPending, &checkout.PaymentInfo{
		ID: "987", Status: "approved", ExternalReference: "order-1",
	})

	require.NoError(t, f.uc.ProcessPaymentNotification(context.Background(), "987"))

	order, _ := f.orderRepo.GetByID("order-1")
	assert.Equal(t, entity.OrderStatusProcessing, order.Status)
	assert.Equal(t, entity.PaymentStatusApproved, order.Payment.Status)
	assert.Equal(t, "987", order.Payment.TransactionID)
	assert.NotNil(t, order.Payment.ApprovedAt)
}

func TestWebhook_PagoRechazado(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusPending, &checkout.PaymentInfo{
		ID: "987", Status: "rejected", ExternalReference: "order-1",
	})

	require.NoError(t, f.uc.ProcessPaymentNotification(context.Background(), "987"))

	order, _ := f.orderRepo.GetByID("order-1")
	assert.Equal(t, entity.OrderStatusRejected, order.Status)
	assert.Equal(t, entity.PaymentStatusRejected, order.Payment.Status)
}

func TestWebhook_Reembolso(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusProcessing, &checkout.PaymentInfo{
		ID: "987", Status: "refunded", ExternalReference: "order-1",
	})

	require.NoError(t, f.uc.ProcessPaymentNotification(context.Background(), "987"))

	order, _ := f.orderRepo.GetByID("order-1")
	assert.Equal(t, entity.OrderStatusCancelled, order.Status)
	assert.Equal(t, entity.PaymentStatusRefunded, order.Payment.Status)
}

// pending/in_process no mueven la orden todavía.
func TestWebhook_PagoPendienteNoTransiciona(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusPending, &checkout.PaymentInfo{
		ID: "987", Status: "in_process", ExternalReference: "order-1",
	})

	require.NoError(t, f.uc.ProcessPaymentNotification(context.Background(), "987"))

	order, _ := f.orderRepo.GetByID("order-1")
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Empty(t, order.Payment.TransactionID)
}

// Una notificación sobre una orden terminal se descarta sin error: el
// proveedor no debe reintentar.
func TestWebhook_OrdenTerminalSeIgnora(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusCompleted, &checkout.PaymentInfo{
		ID: "987", Status: "rejected", ExternalReference: "order-1",
	})

	require.NoError(t, f.uc.ProcessPaymentNotification(context.Background(), "987"))

	order, _ := f.orderRepo.GetByID("order-1")
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
}

func TestWebhook_OrdenDesconocidaSeIgnora(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusPending, &checkout.PaymentInfo{
		ID: "987", Status: "approved", ExternalReference: "no-existe",
	})

	assert.NoError(t, f.uc.ProcessPaymentNotification(context.Background(), "987"))
}

func TestWebhook_FallaDeLaPasarelaSePropaga(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusPending, nil)
	f.gateway.paymentErr = errors.New("pasarela caída")

	err := f.uc.ProcessPaymentNotification(context.Background(), "987")
	assert.Error(t, err)
}

func TestWebhook_IDVacio(t *testing.T) {
	f := newWebhookFixture(t, entity.OrderStatusPending, nil)
	err := f.uc.ProcessPaymentNotification(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
