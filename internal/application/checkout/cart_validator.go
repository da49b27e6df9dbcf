package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

// Los precios de catálogo ya incluyen IVA (21%); el IVA de la orden se
// informa como porción del subtotal.
var (
	vatRate    = decimal.NewFromFloat(0.21)
	vatDivisor = decimal.NewFromFloat(1.21)
)

// ValidatedItem línea autoritativa resultante de la validación: precio de
// catálogo, nunca el enviado por el cliente.
type ValidatedItem struct {
	ProductID   string
	VariationID string
	Name        string
	SKU         string
	Medida      string
	Image       string
	Price       decimal.Decimal
	Quantity    int
}

// ValidatedCart carrito revalidado con totales recalculados en el servidor.
type ValidatedCart struct {
	Items    []ValidatedItem
	Subtotal decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
}

// CartValidator revalida el carrito del cliente contra el catálogo vivo.
// Lectura pura: no muta stock ni reserva nada.
type CartValidator struct {
	productRepo repository.ProductRepository
}

// NewCartValidator construye el validador.
func NewCartValidator(productRepo repository.ProductRepository) *CartValidator {
	return &CartValidator{productRepo: productRepo}
}

// Validate resuelve cada línea contra el catálogo, reemplaza el precio del
// cliente por el de catálogo, verifica stock disponible y recalcula subtotal,
// IVA y total. El total enviado por el cliente se descarta, no se compara.
func (v *CartValidator) Validate(_ context.Context, items []dto.CartItem) (*ValidatedCart, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	cart := &ValidatedCart{Items: make([]ValidatedItem, 0, len(items))}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}

		line, err := v.resolve(item)
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, *line)
		cart.Subtotal = cart.Subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	// IVA incluido: se informa la porción del subtotal que corresponde al impuesto.
	cart.VAT = cart.Subtotal.Sub(cart.Subtotal.Div(vatDivisor)).Round(2)
	cart.Total = cart.Subtotal
	return cart, nil
}

// resolve busca el SKU referido y arma la línea con los datos del catálogo.
func (v *CartValidator) resolve(item dto.CartItem) (*ValidatedItem, error) {
	product, err := v.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
	}

	if item.VariationID != "" {
		variation, err := v.productRepo.GetVariation(item.ProductID, item.VariationID)
		if err != nil {
			return nil, err
		}
		if variation == nil {
			return nil, fmt.Errorf("variación %s de %s: %w", item.VariationID, product.Name, domain.ErrNotFound)
		}
		if item.Quantity > variation.Stock {
			return nil, &domain.InsufficientStockError{
				SKU:       variation.SKU,
				Name:      variationLabel(product, variation),
				Requested: item.Quantity,
				Available: variation.Stock,
			}
		}
		return &ValidatedItem{
			ProductID:   product.ID,
			VariationID: variation.ID,
			Name:        variationLabel(product, variation),
			SKU:         variation.SKU,
			Medida:      variation.Medida,
			Image:       product.Image,
			Price:       variation.Price,
			Quantity:    item.Quantity,
		}, nil
	}

	if product.HasVariations {
		// El cliente debe elegir una variación: el producto no es vendible solo.
		return nil, fmt.Errorf("producto %s requiere variación: %w", product.Name, domain.ErrInvalidInput)
	}
	if item.Quantity > product.Stock {
		return nil, &domain.InsufficientStockError{
			SKU:       product.SKU,
			Name:      product.Name,
			Requested: item.Quantity,
			Available: product.Stock,
		}
	}
	return &ValidatedItem{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		Medida:    product.Medida,
		Image:     product.Image,
		Price:     product.Price,
		Quantity:  item.Quantity,
	}, nil
}

func variationLabel(p *entity.Product, v *entity.Variation) string {
	if v.Name == "" {
		return p.Name
	}
	return p.Name + " " + v.Name
}
