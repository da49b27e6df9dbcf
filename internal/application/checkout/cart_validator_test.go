package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
)

func catalogoBase() *fakeProductRepo {
	repo := newFakeProductRepo()
	repo.addProduct(entity.Product{
		ID: "prod-1", Name: "Yerba Orgánica", SKU: "YER-001",
		Price: decimal.NewFromInt(2500), Stock: 10, MinStock: 2,
	})
	repo.addProduct(entity.Product{
		ID: "prod-2", Name: "Aceite de Oliva", SKU: "ACE-001",
		Price: decimal.NewFromInt(4000), Stock: 3, MinStock: 1,
	})
	repo.addProduct(entity.Product{
		ID: "prod-3", Name: "Miel de Campo", HasVariations: true,
	})
	repo.addVariation(entity.Variation{
		ID: "var-1", ProductID: "prod-3", Name: "500g", SKU: "MIE-500",
		Price: decimal.NewFromInt(3000), Stock: 5, MinStock: 1,
	})
	return repo
}

// El precio que manda el cliente se descarta: los totales salen del catálogo.
func TestValidate_RecalculaTotalesContraCatalogo(t *testing.T) {
	v := checkout.NewCartValidator(catalogoBase())

	cart, err := v.Validate(context.Background(), []dto.CartItem{
		{ProductID: "prod-1", Quantity: 3, Price: decimal.NewFromInt(1)}, // precio falso
		{ProductID: "prod-2", Quantity: 1, Price: decimal.NewFromInt(999999)},
	})
	require.NoError(t, err)

	// 3 x 2500 + 1 x 4000 = 11500, sin importar los precios del cliente
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(11500)), "subtotal = %s", cart.Subtotal)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(11500)), "total = %s", cart.Total)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(2500)),
		"la línea debe llevar el precio de catálogo")
}

// El IVA se informa como la porción incluida en el subtotal (21%).
func TestValidate_IVAIncluidoEnElPrecio(t *testing.T) {
	v := checkout.NewCartValidator(catalogoBase())

	cart, err := v.Validate(context.Background(), []dto.CartItem{
		{ProductID: "prod-1", Quantity: 1},
	})
	require.NoError(t, err)

	// 2500 - 2500/1.21 = 433.88
	esperado := decimal.NewFromFloat(433.88)
	assert.True(t, cart.VAT.Equal(esperado), "IVA = %s, esperado %s", cart.VAT, esperado)
	assert.True(t, cart.Total.Equal(cart.Subtotal), "el total no suma IVA por encima del precio")
}

func TestValidate_StockInsuficiente(t *testing.T) {
	v := checkout.NewCartValidator(catalogoBase())

	_, err := v.Validate(context.Background(), []dto.CartItem{
		{ProductID: "prod-2", Quantity: 4}, // stock disponible: 3
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "ACE-001", stockErr.SKU)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)
}

func TestValidate_VariacionConPrecioYStockPropios(t *testing.T) {
	v := checkout.NewCartValidator(catalogoBase())

	cart, err := v.Validate(context.Background(), []dto.CartItem{
		{ProductID: "prod-3", VariationID: "var-1", Quantity: 2},
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "var-1", cart.Items[0].VariationID)
	assert.Equal(t, "MIE-500", cart.Items[0].SKU)
	assert.Equal(t, "Miel de Campo 500g", cart.Items[0].Name)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(6000)))
}

// Un producto con variaciones no es vendible sin elegir una.
func TestValidate_ProductoConVariacionesRequiereVariacion(t *testing.T) {
	v := checkout.NewCartValidator(catalogoBase())

	_, err := v.Validate(context.Background(), []dto.CartItem{
		{ProductID: "prod-3", Quantity: 1},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValidate_ProductoInexistente(t *testing.T) {
	v := checkout.NewCartValidator(catalogoBase())

	_, err := v.Validate(context.Background(), []dto.CartItem{
		{ProductID: "no-existe", Quantity: 1},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestValidate_EntradasInvalidas(t *testing.T) {
	v := checkout.NewCartValidator(catalogoBase())

	casos := []struct {
		nombre string
		items  []dto.CartItem
	}{
		{"carrito vacío", nil},
		{"cantidad cero", []dto.CartItem{{ProductID: "prod-1", Quantity: 0}}},
		{"cantidad negativa", []dto.CartItem{{ProductID: "prod-1", Quantity: -2}}},
		{"sin product_id", []dto.CartItem{{Quantity: 1}}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := v.Validate(context.Background(), c.items)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}
