// Package mercadopago implementa el adaptador de la pasarela de pagos sobre
// la API de Checkout Pro: una preferencia por orden que devuelve la URL de
// redirección al checkout del proveedor.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/pkg/config"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

const defaultBaseURL = "https://api.mercadopago.com"

var _ checkout.PaymentGateway = (*Client)(nil)

// Client cliente HTTP de la pasarela. Aísla la forma del request/response y
// la taxonomía de fallas del proveedor del resto del sistema.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	currencyID    string
	sandbox       bool
	webhookURL    string
	publicBaseURL string
	log           *logger.Logger
}

// New construye el cliente con la configuración de la pasarela.
func New(cfg config.MercadoPagoConfig, urls config.URLConfig, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		baseURL:       strings.TrimRight(baseURL, "/"),
		accessToken:   cfg.AccessToken,
		currencyID:    cfg.CurrencyID,
		sandbox:       cfg.Sandbox,
		webhookURL:    urls.WebhookURL,
		publicBaseURL: strings.TrimRight(urls.PublicBaseURL, "/"),
		log:           log,
	}
}

// ── Formas del proveedor (no salen de este paquete) ──────────────────────────

type preferenceItem struct {
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CurrencyID string          `json:"currency_id,omitempty"`
}

type preferencePayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Phone *struct {
		Number string `json:"number"`
	} `json:"phone,omitempty"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items             []preferenceItem   `json:"items"`
	Payer             preferencePayer    `json:"payer"`
	ExternalReference string             `json:"external_reference"`
	NotificationURL   string             `json:"notification_url,omitempty"`
	BackURLs          preferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return,omitempty"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

// ── API ──────────────────────────────────────────────────────────────────────

// CreatePreference crea la preferencia de checkout para la orden. El total ya
// incluye IVA, por lo que se envía un único ítem por el total de la orden:
// un ítem por producto arrastraría deriva de redondeo contra ese total.
func (c *Client) CreatePreference(ctx context.Context, order *entity.Order) (*checkout.PreferenceResult, error) {
	if !order.Total.IsPositive() {
		return nil, &domain.PaymentError{
			Kind:    domain.PaymentErrorAmount,
			Message: "el total de la orden debe ser mayor a cero",
		}
	}

	req := preferenceRequest{
		Items: []preferenceItem{{
			Title:      "Orden #" + order.OrderNumber,
			Quantity:   1,
			UnitPrice:  order.Total,
			CurrencyID: c.currencyID,
		}},
		Payer:             payerFor(order),
		ExternalReference: order.ID,
		NotificationURL:   c.webhookURL,
		BackURLs: preferenceBackURLs{
			Success: c.backURL(order, "success"),
			Failure: c.backURL(order, "failure"),
			Pending: c.backURL(order, "pending"),
		},
		AutoReturn: "approved",
	}

	var resp preferenceResponse
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", req, &resp); err != nil {
		return nil, err
	}

	url := resp.InitPoint
	if c.sandbox && resp.SandboxInitPoint != "" {
		url = resp.SandboxInitPoint
	}
	return &checkout.PreferenceResult{ID: resp.ID, URL: url, Sandbox: c.sandbox}, nil
}

// GetPayment consulta el estado de un pago (camino del webhook).
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*checkout.PaymentInfo, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return nil, err
	}
	return &checkout.PaymentInfo{
		ID:                resp.ID.String(),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}

func payerFor(order *entity.Order) preferencePayer {
	payer := preferencePayer{Name: order.Customer.Name, Email: order.Customer.Email}
	if order.Customer.Phone != "" {
		payer.Phone = &struct {
			Number string `json:"number"`
		}{Number: order.Customer.Phone}
	}
	return payer
}

func (c *Client) backURL(order *entity.Order, outcome string) string {
	return fmt.Sprintf("%s/pago/%s?orden=%s", c.publicBaseURL, outcome, order.ID)
}

// do ejecuta la llamada y mapea las fallas del proveedor a la taxonomía
// propia. El error crudo siempre se loguea; al caller solo llega el mensaje
// mapeado, seguro para el usuario.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("pasarela de pagos inalcanzable")
		return &domain.PaymentError{
			Kind:    domain.PaymentErrorGateway,
			Message: "no se pudo procesar el pago, intentá nuevamente",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return c.mapError(resp.StatusCode, raw, path)
}

// mapError traduce la falla del proveedor: auth -> configuración, validación
// -> datos inválidos, mensajes de monto/precio -> monto, resto -> genérico.
func (c *Client) mapError(status int, raw []byte, path string) error {
	var detail apiError
	_ = json.Unmarshal(raw, &detail)
	providerMsg := detail.Message
	if providerMsg == "" {
		providerMsg = string(raw)
	}

	c.log.Error().
		Int("status", status).
		Str("path", path).
		Str("provider_error", providerMsg).
		Msg("la pasarela de pagos rechazó la llamada")

	lower := strings.ToLower(providerMsg)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &domain.PaymentError{
			Kind:    domain.PaymentErrorConfig,
			Message: "la pasarela de pagos no está configurada correctamente",
		}
	case strings.Contains(lower, "amount") || strings.Contains(lower, "price") ||
		strings.Contains(lower, "monto") || strings.Contains(lower, "unit_price"):
		return &domain.PaymentError{
			Kind:    domain.PaymentErrorAmount,
			Message: "el monto de la orden no es válido para el pago",
		}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &domain.PaymentError{
			Kind:    domain.PaymentErrorInvalidData,
			Message: "los datos de pago enviados no son válidos",
		}
	default:
		return &domain.PaymentError{
			Kind:    domain.PaymentErrorGateway,
			Message: "no se pudo procesar el pago, intentá nuevamente",
		}
	}
}
