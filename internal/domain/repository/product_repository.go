package repository

import "github.com/jmcasares/tienda-api/internal/domain/entity"

// ProductRepository lectura de catálogo y escritura del contador de stock.
// El CRUD de productos vive en otro servicio; acá solo lo que necesita el
// motor de órdenes e inventario.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetVariation(productID, variationID string) (*entity.Variation, error)
	// GetStockLevel lee el stock del SKU referido (producto o variación).
	GetStockLevel(productID, variationID string) (*entity.StockLevel, error)
	// GetStockLevelForUpdate lee el stock bloqueando la fila (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción.
	GetStockLevelForUpdate(productID, variationID string) (*entity.StockLevel, error)
	// UpdateStock escribe el nuevo contador del SKU referido.
	UpdateStock(productID, variationID string, stock int) error
	// ListLowStock devuelve los SKUs con stock <= stock mínimo.
	ListLowStock() ([]entity.StockLevel, error)
}
