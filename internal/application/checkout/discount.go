package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/jmcasares/tienda-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ApplyDiscount aplica un porcentaje de descuento a una orden ya creada y
// devuelve el total a mostrar. El porcentaje se acota a [0, 100]. En la
// primera aplicación se copia el total vigente a TotalBeforeDiscount como
// valor de auditoría; ediciones posteriores del porcentaje nunca lo pisan.
// Order.Total queda intacto: sigue siendo el valor autoritativo pre-descuento.
func ApplyDiscount(order *entity.Order, percentage decimal.Decimal) decimal.Decimal {
	if percentage.IsNegative() {
		percentage = decimal.Zero
	}
	if percentage.GreaterThan(hundred) {
		percentage = hundred
	}

	if order.TotalBeforeDiscount == nil {
		base := order.Total
		order.TotalBeforeDiscount = &base
	}

	pct := percentage
	order.DiscountPercentage = &pct

	base := *order.TotalBeforeDiscount
	displayed := base.Sub(base.Mul(pct).Div(hundred))
	if displayed.IsNegative() {
		displayed = decimal.Zero
	}
	return displayed.Round(2)
}
