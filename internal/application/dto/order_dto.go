package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcasares/tienda-api/internal/domain/entity"
)

// CartItem línea del carrito enviada por el cliente. Precio y total que mande
// el cliente son informativos: el servidor los recalcula contra catálogo.
// La referencia al SKU es explícita: VariationID vacío significa que el
// producto es el SKU, nunca se infiere partiendo el id por puntuación.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
	Medida      string          `json:"medida,omitempty"`
}

// CustomerRequest datos de contacto del comprador.
type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CreateOrderRequest body para POST /api/orders. Total se descarta en la
// validación; se incluye solo porque el cliente lo envía.
type CreateOrderRequest struct {
	Items         []CartItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Customer      CustomerRequest `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateOrderRequest body para PATCH /api/admin/orders/:id.
type UpdateOrderRequest struct {
	Status             string           `json:"status,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
}

// OrderItemDTO línea de la orden en respuestas.
type OrderItemDTO struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Medida      string          `json:"medida,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
}

// PaymentDetailsDTO estado del pago en respuestas.
type PaymentDetailsDTO struct {
	Status         string     `json:"status"`
	Method         string     `json:"method"`
	TransactionID  string     `json:"transaction_id,omitempty"`
	PreferenceID   string     `json:"preference_id,omitempty"`
	PaymentURL     string     `json:"payment_url,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// OrderDTO representación pública de la orden.
type OrderDTO struct {
	ID                  string            `json:"id"`
	OrderNumber         string            `json:"order_number"`
	AccessToken         string            `json:"access_token"`
	Customer            CustomerRequest   `json:"customer"`
	Items               []OrderItemDTO    `json:"items"`
	Subtotal            decimal.Decimal   `json:"subtotal"`
	VAT                 decimal.Decimal   `json:"vat"`
	ShippingCost        decimal.Decimal   `json:"shipping_cost"`
	Total               decimal.Decimal   `json:"total"`
	TotalBeforeDiscount *decimal.Decimal  `json:"total_before_discount,omitempty"`
	DiscountPercentage  *decimal.Decimal  `json:"discount_percentage,omitempty"`
	DisplayTotal        decimal.Decimal   `json:"display_total"`
	Status              string            `json:"status"`
	PaymentMethod       string            `json:"payment_method"`
	Payment             PaymentDetailsDTO `json:"payment_details"`
	Notes               string            `json:"notes,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// CreateOrderResponse respuesta de POST /api/orders: la orden persistida más
// la URL de pago (online) o la de la página de confirmación (efectivo).
type CreateOrderResponse struct {
	Order       OrderDTO `json:"order"`
	PaymentURL  string   `json:"payment_url,omitempty"`
	RedirectURL string   `json:"redirect_url,omitempty"`
}

// OrderListResponse página de órdenes para el panel admin.
type OrderListResponse struct {
	Orders []OrderDTO   `json:"orders"`
	Page   PageResponse `json:"page"`
}

// OrderSearchRequest query params de GET /api/admin/orders.
type OrderSearchRequest struct {
	Query  string `query:"q"`
	Status string `query:"status"`
	PageRequest
}

// FromOrder mapea la entidad a su DTO.
func FromOrder(o *entity.Order) OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemDTO{
			ProductID:   it.ProductID,
			VariationID: it.VariationID,
			Name:        it.Name,
			SKU:         it.SKU,
			Medida:      it.Medida,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Image:       it.Image,
		}
	}
	return OrderDTO{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		AccessToken: o.AccessToken,
		Customer: CustomerRequest{
			Name:    o.Customer.Name,
			Email:   o.Customer.Email,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
		},
		Items:               items,
		Subtotal:            o.Subtotal,
		VAT:                 o.VAT,
		ShippingCost:        o.ShippingCost,
		Total:               o.Total,
		TotalBeforeDiscount: o.TotalBeforeDiscount,
		DiscountPercentage:  o.DiscountPercentage,
		DisplayTotal:        o.DisplayTotal(),
		Status:              o.Status,
		PaymentMethod:       o.PaymentMethod,
		Payment: PaymentDetailsDTO{
			Status:         o.Payment.Status,
			Method:         o.Payment.Method,
			TransactionID:  o.Payment.TransactionID,
			PreferenceID:   o.Payment.PreferenceID,
			PaymentURL:     o.Payment.PaymentURL,
			ApprovedAt:     o.Payment.ApprovedAt,
			ExpirationDate: o.Payment.ExpirationDate,
			Error:          o.Payment.Error,
		},
		Notes:     o.Notes,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
