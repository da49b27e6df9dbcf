package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

// Acciones sobre el contador de stock.
const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
	ActionSet       = "set"
)

// MovementInput entrada para aplicar una mutación de stock sobre un SKU
// (producto o producto+variación).
type MovementInput struct {
	ProductID   string
	VariationID string // vacío = el producto es el SKU
	Amount      int    // cantidad para increment/decrement; valor final para set
	Action      string
	Reason      string // SALE | ADJUSTMENT | MANUAL; vacío = MANUAL
	OrderToken  string // referencia a la orden cuando Reason = SALE
}

// MovementResult contador resultante más la fila creada en el libro.
type MovementResult struct {
	PreviousStock int
	NewStock      int
	Movement      *entity.StockMovement
}

// StockLedger es el dueño exclusivo de los contadores de stock por SKU.
// Toda mutación pasa por Apply, que bloquea la fila del SKU (SELECT FOR
// UPDATE) y deja una fila inmutable en el libro de movimientos con la foto
// anterior/posterior. El stock puede quedar en cero o negativo: una venta ya
// cobrada nunca se bloquea, el faltante se registra y se alerta.
type StockLedger struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewStockLedger construye el libro de movimientos.
func NewStockLedger(txRunner TxRunner, log *logger.Logger) *StockLedger {
	return &StockLedger{txRunner: txRunner, log: log}
}

// Apply aplica la mutación y registra el movimiento, todo en una transacción.
func (l *StockLedger) Apply(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Action {
	case ActionIncrement, ActionDecrement:
		if in.Amount <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case ActionSet:
		if in.Amount < 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.MovementReasonManual
	}
	if !entity.ValidMovementReason(reason) {
		return nil, domain.ErrInvalidInput
	}

	var result *MovementResult
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		level, err := productRepo.GetStockLevelForUpdate(in.ProductID, in.VariationID)
		if err != nil {
			return err
		}

		previous := level.Stock
		var newStock int
		switch in.Action {
		case ActionIncrement:
			newStock = previous + in.Amount
		case ActionDecrement:
			newStock = previous - in.Amount
		case ActionSet:
			newStock = in.Amount
		}

		if err := productRepo.UpdateStock(in.ProductID, in.VariationID, newStock); err != nil {
			return err
		}

		movType, qty := movementFor(previous, newStock)
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			VariationID:   in.VariationID,
			Type:          movType,
			Reason:        reason,
			Quantity:      qty,
			PreviousStock: previous,
			NewStock:      newStock,
			OrderToken:    in.OrderToken,
			CreatedAt:     time.Now(),
		}
		if err := movementRepo.Create(mov); err != nil {
			return err
		}

		result = &MovementResult{PreviousStock: previous, NewStock: newStock, Movement: mov}
		l.alert(level, newStock)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// movementFor deriva tipo y cantidad del movimiento a partir del delta.
// Un set sin cambio queda registrado como IN de cantidad 0.
func movementFor(previous, newStock int) (string, int) {
	delta := newStock - previous
	if delta < 0 {
		return entity.MovementTypeOUT, -delta
	}
	return entity.MovementTypeIN, delta
}

// alert loguea el estado resultante: negativo es crítico, por debajo del
// mínimo es aviso de reposición. No bloquea ni revierte la mutación.
func (l *StockLedger) alert(level *entity.StockLevel, newStock int) {
	switch {
	case newStock < 0:
		l.log.Error().
			Str("sku", level.Label()).
			Int("stock", newStock).
			Msg("stock negativo: revisar inventario")
	case newStock <= level.MinStock:
		l.log.Warn().
			Str("sku", level.Label()).
			Int("stock", newStock).
			Int("stock_minimo", level.MinStock).
			Msg("stock en o por debajo del mínimo")
	}
}
