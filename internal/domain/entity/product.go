package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Si HasVariations es false el
// producto mismo es el SKU vendible y Stock/MinStock aplican directamente;
// si es true, el stock vive en cada Variation.
type Product struct {
	ID            string
	Name          string
	SKU           string
	Description   string
	Price         decimal.Decimal // precio de venta, IVA incluido
	Stock         int
	MinStock      int // stock mínimo: por debajo dispara alerta de reposición
	Medida        string
	Image         string
	HasVariations bool
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Variation es un sub-SKU de un producto, con precio y stock propios
// (ej. una medida o talle).
type Variation struct {
	ID        string
	ProductID string
	Name      string
	SKU       string
	Medida    string
	Price     decimal.Decimal
	Stock     int
	MinStock  int
}

// StockLevel es la vista mínima de stock de un SKU (producto o variación),
// usada por el libro de movimientos para leer y escribir el contador.
type StockLevel struct {
	ProductID   string
	VariationID string // vacío = el producto es el SKU
	Name        string
	SKU         string
	Stock       int
	MinStock    int
}

// Label devuelve un identificador legible del SKU para logs y alertas.
func (s *StockLevel) Label() string {
	if s.SKU != "" {
		return s.SKU
	}
	return s.Name
}
