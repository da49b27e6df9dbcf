package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/application/orders"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
)

// ReceiptGenerator genera el comprobante PDF de una orden.
type ReceiptGenerator interface {
	GenerateReceipt(order *entity.Order) ([]byte, error)
}

// OrderHandler maneja el checkout público y la gestión admin de órdenes.
type OrderHandler struct {
	createUC *checkout.CreateOrderUseCase
	updateUC *checkout.UpdateOrderStatusUseCase
	query    *orders.QueryService
	receipts ReceiptGenerator
}

// NewOrderHandler construye el handler.
func NewOrderHandler(
	createUC *checkout.CreateOrderUseCase,
	updateUC *checkout.UpdateOrderStatusUseCase,
	query *orders.QueryService,
	receipts ReceiptGenerator,
) *OrderHandler {
	return &OrderHandler{createUC: createUC, updateUC: updateUC, query: query, receipts: receipts}
}

// Create godoc
// @Summary      Crear orden (checkout)
// @Description  Valida el carrito contra catálogo, crea la orden y devuelve la
//
//	URL de pago (online) o la de la página de confirmación (efectivo).
//
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "items, customer, payment_method"
// @Success      201   {object}  dto.CreateOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.createUC.CreateOrder(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByToken godoc
// @Summary      Consultar orden por token de acceso
// @Description  El token opaco de la orden es la única credencial: no requiere login.
// @Tags         orders
// @Produce      json
// @Param        accessToken  path  string  true  "token de acceso de la orden"
// @Success      200  {object}  dto.OrderDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{accessToken} [get]
func (h *OrderHandler) GetByToken(c *fiber.Ctx) error {
	order, err := h.query.GetByAccessToken(c.Context(), c.Params("accessToken"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(order))
}

// Receipt godoc
// @Summary      Descargar comprobante PDF de la orden
// @Tags         orders
// @Produce      application/pdf
// @Param        accessToken  path  string  true  "token de acceso de la orden"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{accessToken}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	order, err := h.query.GetByAccessToken(c.Context(), c.Params("accessToken"))
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, err := h.receipts.GenerateReceipt(order)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "comprobante-"+order.OrderNumber+".pdf"))
	return c.Send(pdfBytes)
}

// Update godoc
// @Summary      Actualizar orden (admin)
// @Description  Cambia estado, notas o descuento. La transición a completed
//
//	descuenta stock una única vez, aun con requests repetidos.
//
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "status, notes, discount_percentage (todos opcionales)"
// @Success      200   {object}  dto.OrderDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id} [patch]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.updateUC.UpdateByID(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(order))
}

// Search godoc
// @Summary      Listar y buscar órdenes (admin)
// @Description  Búsqueda insensible a mayúsculas y acentos sobre número de
//
//	orden, nombre y email del cliente.
//
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "texto a buscar"
// @Param        status  query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "tamaño de página (default 20, max 100)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/orders [get]
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	var in dto.OrderSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	resp, err := h.query.Search(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
