package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/application/inventory"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

// UpdateOrderStatusUseCase aplica transiciones de estado y ediciones del
// admin (notas, descuento) sobre una orden.
//
// Contrato de idempotencia: el stock se descuenta exactamente una vez por
// orden. La primera transición a completed se reclama con un UPDATE
// condicional en la base (no con un check-then-act en memoria); cualquier
// reintento, concurrente o secuencial, no vuelve a tocar el stock.
type UpdateOrderStatusUseCase struct {
	orderRepo repository.OrderRepository
	ledger    StockApplier
	log       *logger.Logger
}

// NewUpdateOrderStatusUseCase construye el caso de uso.
func NewUpdateOrderStatusUseCase(
	orderRepo repository.OrderRepository,
	ledger StockApplier,
	log *logger.Logger,
) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{orderRepo: orderRepo, ledger: ledger, log: log}
}

// UpdateByID aplica la edición sobre la orden identificada por su id interno.
func (uc *UpdateOrderStatusUseCase) UpdateByID(ctx context.Context, orderID string, in dto.UpdateOrderRequest) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.update(ctx, order, in)
}

func (uc *UpdateOrderStatusUseCase) update(ctx context.Context, order *entity.Order, in dto.UpdateOrderRequest) (*entity.Order, error) {
	newStatus := in.Status
	if newStatus != "" {
		if !entity.IsValidOrderStatus(newStatus) {
			return nil, fmt.Errorf("%q: %w", newStatus, domain.ErrInvalidStatus)
		}
		// Ningún estado terminal admite salida; repetir el mismo estado es un no-op.
		if entity.IsTerminalOrderStatus(order.Status) && newStatus != order.Status {
			return nil, fmt.Errorf("orden en %s: %w", order.Status, domain.ErrConflict)
		}
	}

	if newStatus == entity.OrderStatusCompleted && order.Status != entity.OrderStatusCompleted {
		return uc.complete(ctx, order, in)
	}

	uc.merge(order, in, newStatus)
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// complete reclama la transición a completed de forma atómica y, solo si este
// caller ganó el reclamo, descuenta el stock de cada línea.
func (uc *UpdateOrderStatusUseCase) complete(ctx context.Context, order *entity.Order, in dto.UpdateOrderRequest) (*entity.Order, error) {
	claimed, err := uc.orderRepo.ClaimCompletion(order.ID)
	if err != nil {
		return nil, err
	}
	if claimed {
		uc.applySaleMovements(ctx, order)
	}

	// Releer: el reclamo ya escribió estado y versión en la base.
	updated, err := uc.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	if in.Notes != nil || in.DiscountPercentage != nil {
		uc.merge(updated, in, "")
		if err := uc.orderRepo.Update(updated); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// applySaleMovements descuenta el stock de cada línea, cada una en su propia
// transacción. La orden ya está cobrada: una línea que falla se loguea y no
// frena a las demás; la conciliación queda para el inventario.
func (uc *UpdateOrderStatusUseCase) applySaleMovements(ctx context.Context, order *entity.Order) {
	for _, item := range order.Items {
		_, err := uc.ledger.Apply(ctx, inventory.MovementInput{
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Amount:      item.Quantity,
			Action:      inventory.ActionDecrement,
			Reason:      entity.MovementReasonSale,
			OrderToken:  order.AccessToken,
		})
		if err != nil {
			uc.log.Error().Err(err).
				Str("order", order.OrderNumber).
				Str("product_id", item.ProductID).
				Str("variation_id", item.VariationID).
				Msg("no se pudo descontar stock de la línea; continúa con las demás")
		}
	}
}

// merge vuelca estado, notas y descuento sobre la entidad.
func (uc *UpdateOrderStatusUseCase) merge(order *entity.Order, in dto.UpdateOrderRequest, newStatus string) {
	if newStatus != "" && newStatus != order.Status {
		order.Status = newStatus
		uc.syncPaymentStatus(order, newStatus)
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	if in.DiscountPercentage != nil {
		ApplyDiscount(order, *in.DiscountPercentage)
	}
	order.UpdatedAt = time.Now()
}

// syncPaymentStatus refleja en paymentDetails las transiciones que implican
// resultado de pago.
func (uc *UpdateOrderStatusUseCase) syncPaymentStatus(order *entity.Order, newStatus string) {
	switch newStatus {
	case entity.OrderStatusRejected, entity.OrderStatusPaymentFailed:
		order.Payment.Status = entity.PaymentStatusRejected
	case entity.OrderStatusProcessing:
		if order.Payment.Status == entity.PaymentStatusPending {
			order.Payment.Status = entity.PaymentStatusApproved
			now := time.Now()
			order.Payment.ApprovedAt = &now
		}
	}
}
