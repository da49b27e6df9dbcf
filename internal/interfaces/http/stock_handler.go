package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/application/inventory"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

// StockHandler maneja las operaciones admin de inventario.
type StockHandler struct {
	ledger       *inventory.StockLedger
	lowStock     *inventory.LowStockUseCase
	movementRepo repository.StockMovementRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(
	ledger *inventory.StockLedger,
	lowStock *inventory.LowStockUseCase,
	movementRepo repository.StockMovementRepository,
) *StockHandler {
	return &StockHandler{ledger: ledger, lowStock: lowStock, movementRepo: movementRepo}
}

// UpdateStock godoc
// @Summary      Ajustar stock de un SKU (admin)
// @Description  Aplica increment, decrement o set sobre el contador del SKU y
//
//	registra el movimiento en el libro.
//
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStockRequest  true  "product_id, variation_id (opcional), stock, action, reason (opcional)"
// @Success      200   {object}  dto.UpdateStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/stock [put]
func (h *StockHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	result, err := h.ledger.Apply(c.Context(), inventory.MovementInput{
		ProductID:   in.ProductID,
		VariationID: in.VariationID,
		Amount:      in.Stock,
		Action:      in.Action,
		Reason:      in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.UpdateStockResponse{
		ProductID:     in.ProductID,
		VariationID:   in.VariationID,
		PreviousStock: result.PreviousStock,
		NewStock:      result.NewStock,
		Movement:      dto.FromMovement(result.Movement),
	})
}

// ListMovements godoc
// @Summary      Libro de movimientos de stock (admin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "IN | OUT"
// @Param        product_id  query  string  false  "filtrar por producto"
// @Param        limit       query  int     false  "tamaño de página (default 20, max 100)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/stock-movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	in.DefaultPage()

	movements, total, err := h.movementRepo.List(repository.MovementFilter{
		Type:      in.Type,
		ProductID: in.ProductID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.StockMovementDTO, len(movements))
	for i := range movements {
		out[i] = dto.FromMovement(&movements[i])
	}
	return c.JSON(dto.MovementListResponse{
		Movements: out,
		Page:      dto.PageResponse{Total: total, Limit: in.Limit, Offset: in.Offset},
	})
}

// LowStock godoc
// @Summary      SKUs en o por debajo de su stock mínimo (admin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/inventory/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.lowStock.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
