package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
	"github.com/jmcasares/tienda-api/pkg/logger"
	"github.com/jmcasares/tienda-api/pkg/token"
)

// CreateOrderUseCase orquesta el checkout: revalida el carrito, persiste la
// orden, pide la preferencia de pago (online) o arma las instrucciones de
// pago en efectivo.
type CreateOrderUseCase struct {
	txRunner      TxRunner
	orderRepo     repository.OrderRepository
	validator     *CartValidator
	gateway       PaymentGateway
	mailer        Mailer
	publicBaseURL string
	log           *logger.Logger
}

// NewCreateOrderUseCase construye el caso de uso.
func NewCreateOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	validator *CartValidator,
	gateway PaymentGateway,
	mailer Mailer,
	publicBaseURL string,
	log *logger.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		validator:     validator,
		gateway:       gateway,
		mailer:        mailer,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

// CreateOrder ejecuta el checkout completo. Los errores de validación y de
// stock se propagan tal cual (sin orden parcial). Una falla de la pasarela
// deja la orden persistida en payment_failed y se re-lanza envuelta.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if in.Customer.Name == "" || in.Customer.Email == "" || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}

	cart, err := uc.validator.Validate(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	order, err := uc.buildOrder(in, cart)
	if err != nil {
		return nil, err
	}

	if err := uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository) error {
		return orderRepo.Create(order)
	}); err != nil {
		return nil, err
	}

	// Email de confirmación: best-effort, la orden ya existe y debe devolverse.
	if err := uc.mailer.SendOrderConfirmation(order); err != nil {
		uc.log.Warn().Err(err).
			Str("order", order.OrderNumber).
			Msg("no se pudo enviar el email de confirmación")
	}

	if order.PaymentMethod == entity.PaymentMethodCash {
		resp := uc.respond(order)
		resp.RedirectURL = uc.cashRedirectURL(order)
		return resp, nil
	}
	return uc.requestPreference(ctx, order)
}

// buildOrder arma la entidad con número de orden, access token y estado
// inicial según el método de pago.
func (uc *CreateOrderUseCase) buildOrder(in dto.CreateOrderRequest, cart *ValidatedCart) (*entity.Order, error) {
	accessToken, err := token.NewAccessToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()

	order := &entity.Order{
		ID:          uuid.New().String(),
		OrderNumber: token.NewOrderNumber(now),
		AccessToken: accessToken,
		Customer: entity.Customer{
			Name:    in.Customer.Name,
			Email:   in.Customer.Email,
			Phone:   in.Customer.Phone,
			Address: in.Customer.Address,
		},
		Subtotal:      cart.Subtotal,
		VAT:           cart.VAT,
		ShippingCost:  decimal.Zero,
		Total:         cart.Total,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, item := range cart.Items {
		order.Items = append(order.Items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Name:        item.Name,
			SKU:         item.SKU,
			Medida:      item.Medida,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Image:       item.Image,
		})
	}

	if in.PaymentMethod == entity.PaymentMethodCash {
		expiration := now.AddDate(0, 0, entity.CashExpirationDays)
		order.Status = entity.OrderStatusPendingPayment
		order.Payment = entity.PaymentDetails{
			Status:         entity.PaymentStatusPending,
			Method:         in.PaymentMethod,
			ExpirationDate: &expiration,
		}
		return order, nil
	}

	order.Status = entity.OrderStatusPending
	order.Payment = entity.PaymentDetails{
		Status: entity.PaymentStatusPending,
		Method: in.PaymentMethod,
	}
	return order, nil
}

// requestPreference pide la preferencia de pago. Si la pasarela falla, la
// orden queda en payment_failed con el error registrado y se re-lanza un
// PaymentError envuelto: la orden sobrevive para reintento/inspección.
func (uc *CreateOrderUseCase) requestPreference(ctx context.Context, order *entity.Order) (*dto.CreateOrderResponse, error) {
	pref, err := uc.gateway.CreatePreference(ctx, order)
	if err != nil {
		order.Status = entity.OrderStatusPaymentFailed
		order.Payment.Error = err.Error()
		if updErr := uc.orderRepo.Update(order); updErr != nil {
			uc.log.Error().Err(updErr).
				Str("order", order.OrderNumber).
				Msg("no se pudo registrar la falla de pago en la orden")
		}
		if _, ok := domain.AsPaymentError(err); ok {
			return nil, fmt.Errorf("crear preferencia para %s: %w", order.OrderNumber, err)
		}
		return nil, &domain.PaymentError{
			Kind:    domain.PaymentErrorGateway,
			Message: "no se pudo procesar el pago, intentá nuevamente",
			Err:     err,
		}
	}

	order.Payment.PreferenceID = pref.ID
	order.Payment.PaymentURL = pref.URL
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}

	resp := uc.respond(order)
	resp.PaymentURL = pref.URL
	return resp, nil
}

// cashRedirectURL arma la URL de la página informativa de pago en efectivo
// (no es un redirect de pago) con número de orden, total y access token.
func (uc *CreateOrderUseCase) cashRedirectURL(order *entity.Order) string {
	q := url.Values{}
	q.Set("orden", order.OrderNumber)
	q.Set("total", order.Total.StringFixed(2))
	q.Set("token", order.AccessToken)
	return uc.publicBaseURL + "/pedido-confirmado?" + q.Encode()
}

func (uc *CreateOrderUseCase) respond(order *entity.Order) *dto.CreateOrderResponse {
	return &dto.CreateOrderResponse{Order: dto.FromOrder(order)}
}
