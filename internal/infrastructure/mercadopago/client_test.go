package mercadopago_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/infrastructure/mercadopago"
	"github.com/jmcasares/tienda-api/pkg/config"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

func newClient(baseURL string, sandbox bool) *mercadopago.Client {
	return mercadopago.New(
		config.MercadoPagoConfig{
			AccessToken: "TEST-token",
			BaseURL:     baseURL,
			CurrencyID:  "ARS",
			Sandbox:     sandbox,
		},
		config.URLConfig{
			PublicBaseURL: "https://tienda.example.com",
			WebhookURL:    "https://tienda.example.com/api/webhooks/pagos",
		},
		logger.Nop(),
	)
}

func ordenDePrueba(total int64) *entity.Order {
	return &entity.Order{
		ID:          "order-1",
		OrderNumber: "ORD-00001-01",
		Total:       decimal.NewFromInt(total),
		Customer:    entity.Customer{Name: "María Pérez", Email: "maria@example.com"},
	}
}

func TestCreatePreference_RequestYRespuesta(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer TEST-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":                 "pref-123",
			"init_point":         "https://mp.example.com/init/pref-123",
			"sandbox_init_point": "https://sandbox.mp.example.com/init/pref-123",
		})
	}))
	defer srv.Close()

	pref, err := newClient(srv.URL, false).CreatePreference(context.Background(), ordenDePrueba(12100))
	require.NoError(t, err)

	assert.Equal(t, "pref-123", pref.ID)
	assert.Equal(t, "https://mp.example.com/init/pref-123", pref.URL)
	assert.False(t, pref.Sandbox)

	// Un único ítem por el total de la orden, referenciando el id interno
	items := captured["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Orden #ORD-00001-01", item["title"])
	assert.Equal(t, float64(1), item["quantity"])
	assert.Equal(t, "ARS", item["currency_id"])
	assert.Equal(t, "order-1", captured["external_reference"])
	assert.Equal(t, "https://tienda.example.com/api/webhooks/pagos", captured["notification_url"])
}

func TestCreatePreference_SandboxUsaSuInitPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":                 "pref-123",
			"init_point":         "https://mp.example.com/init/pref-123",
			"sandbox_init_point": "https://sandbox.mp.example.com/init/pref-123",
		})
	}))
	defer srv.Close()

	pref, err := newClient(srv.URL, true).CreatePreference(context.Background(), ordenDePrueba(100))
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.mp.example.com/init/pref-123", pref.URL)
	assert.True(t, pref.Sandbox)
}

// Total <= 0 falla rápido, sin llamar al proveedor.
func TestCreatePreference_TotalNoPositivo(t *testing.T) {
	llamadas := 0
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		llamadas++
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, false).CreatePreference(context.Background(), ordenDePrueba(0))

	pe, ok := domain.AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentErrorAmount, pe.Kind)
	assert.Zero(t, llamadas)
}

// Las fallas del proveedor se mapean a la taxonomía propia.
func TestCreatePreference_MapeoDeErrores(t *testing.T) {
	casos := []struct {
		nombre       string
		status       int
		body         string
		kindEsperado string
	}{
		{"credenciales inválidas", http.StatusUnauthorized, `{"message":"invalid access token"}`, domain.PaymentErrorConfig},
		{"prohibido", http.StatusForbidden, `{"message":"forbidden"}`, domain.PaymentErrorConfig},
		{"datos inválidos", http.StatusBadRequest, `{"message":"payer.email must be valid"}`, domain.PaymentErrorInvalidData},
		{"monto inválido", http.StatusBadRequest, `{"message":"unit_price must be positive"}`, domain.PaymentErrorAmount},
		{"error del proveedor", http.StatusInternalServerError, `{"message":"internal error"}`, domain.PaymentErrorGateway},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(c.status)
				_, _ = w.Write([]byte(c.body))
			}))
			defer srv.Close()

			_, err := newClient(srv.URL, false).CreatePreference(context.Background(), ordenDePrueba(100))

			pe, ok := domain.AsPaymentError(err)
			require.True(t, ok, "debe llegar un PaymentError, llegó %v", err)
			assert.Equal(t, c.kindEsperado, pe.Kind)
			assert.NotContains(t, pe.Message, "access token",
				"el detalle crudo del proveedor no sale al usuario")
		})
	}
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/987", r.URL.Path)
		assert.Equal(t, "Bearer TEST-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":987,"status":"approved","external_reference":"order-1"}`))
	}))
	defer srv.Close()

	info, err := newClient(srv.URL, false).GetPayment(context.Background(), "987")
	require.NoError(t, err)

	assert.Equal(t, "987", info.ID)
	assert.Equal(t, "approved", info.Status)
	assert.Equal(t, "order-1", info.ExternalReference)
}
