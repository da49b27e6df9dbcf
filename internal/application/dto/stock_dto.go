package dto

import (
	"time"

	"github.com/jmcasares/tienda-api/internal/domain/entity"
)

// UpdateStockRequest body para PUT /api/admin/stock.
type UpdateStockRequest struct {
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id,omitempty"`
	Stock       int    `json:"stock"`  // cantidad para increment/decrement, valor final para set
	Action      string `json:"action"` // increment | decrement | set
	Reason      string `json:"reason,omitempty"`
}

// StockMovementDTO fila del libro de movimientos en respuestas.
type StockMovementDTO struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	VariationID   string    `json:"variation_id,omitempty"`
	Type          string    `json:"type"`
	Reason        string    `json:"reason"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	OrderToken    string    `json:"order_token,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateStockResponse respuesta de PUT /api/admin/stock.
type UpdateStockResponse struct {
	ProductID     string           `json:"product_id"`
	VariationID   string           `json:"variation_id,omitempty"`
	PreviousStock int              `json:"previous_stock"`
	NewStock      int              `json:"new_stock"`
	Movement      StockMovementDTO `json:"movement"`
}

// MovementListRequest query params de GET /api/admin/stock-movements.
type MovementListRequest struct {
	Type      string `query:"type"`
	ProductID string `query:"product_id"`
	PageRequest
}

// MovementListResponse página del libro de movimientos.
type MovementListResponse struct {
	Movements []StockMovementDTO `json:"movements"`
	Page      PageResponse       `json:"page"`
}

// LowStockDTO SKU en o por debajo de su stock mínimo.
type LowStockDTO struct {
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id,omitempty"`
	Name        string `json:"name"`
	SKU         string `json:"sku,omitempty"`
	Stock       int    `json:"stock"`
	MinStock    int    `json:"stock_minimo"`
	Critical    bool   `json:"critical"` // stock <= 0
}

// FromMovement mapea la entidad a su DTO.
func FromMovement(m *entity.StockMovement) StockMovementDTO {
	return StockMovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		VariationID:   m.VariationID,
		Type:          m.Type,
		Reason:        m.Reason,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		OrderToken:    m.OrderToken,
		CreatedAt:     m.CreatedAt,
	}
}
