package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

// WebhookHandler recibe las notificaciones de pago del proveedor.
type WebhookHandler struct {
	uc  *checkout.PaymentWebhookUseCase
	log *logger.Logger
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(uc *checkout.PaymentWebhookUseCase, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{uc: uc, log: log}
}

// webhookBody forma del body de la notificación. El proveedor también manda
// variantes por query string; se aceptan ambas.
type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandlePayment godoc
// @Summary      Notificación de pago del proveedor
// @Description  Consulta el estado real del pago contra el proveedor y avanza
//
//	la orden. Siempre responde 200 a notificaciones parseables:
//	un 5xx haría que el proveedor reintente indefinidamente.
//
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/webhooks/pagos [post]
func (h *WebhookHandler) HandlePayment(c *fiber.Ctx) error {
	paymentID, kind := h.extract(c)
	if paymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "notificación sin id de pago"})
	}
	if kind != "" && kind != "payment" {
		// merchant_order y otros tipos no mueven órdenes
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	if err := h.uc.ProcessPaymentNotification(c.Context(), paymentID); err != nil {
		h.log.Error().Err(err).Str("payment_id", paymentID).Msg("no se pudo procesar la notificación de pago")
		return c.JSON(fiber.Map{"status": "error"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// extract saca el id de pago y el tipo de notificación, del body JSON o de la
// query string ("data.id"/"id" y "type"/"topic").
func (h *WebhookHandler) extract(c *fiber.Ctx) (paymentID, kind string) {
	var body webhookBody
	if err := c.BodyParser(&body); err == nil && body.Data.ID != "" {
		return body.Data.ID, body.Type
	}

	if id := c.Query("data.id"); id != "" {
		return id, c.Query("type")
	}
	if id := c.Query("id"); id != "" {
		return id, c.Query("topic")
	}
	return "", ""
}
