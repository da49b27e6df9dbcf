package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura de catálogo y escritura de stock sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por id. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, name, sku, description, price, stock, min_stock,
		       COALESCE(medida, ''), COALESCE(image, ''), has_variations, active,
		       created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.SKU, &p.Description, &p.Price, &p.Stock, &p.MinStock,
		&p.Medida, &p.Image, &p.HasVariations, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetVariation obtiene una variación del producto. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetVariation(productID, variationID string) (*entity.Variation, error) {
	query := `
		SELECT id, product_id, name, COALESCE(sku, ''), COALESCE(medida, ''),
		       price, stock, min_stock
		FROM product_variations WHERE id = $1 AND product_id = $2`
	var v entity.Variation
	err := r.q.QueryRow(context.Background(), query, variationID, productID).Scan(
		&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.Medida, &v.Price, &v.Stock, &v.MinStock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variation: %w", err)
	}
	return &v, nil
}

// GetStockLevel lee el stock del SKU referido sin bloquear.
func (r *ProductRepo) GetStockLevel(productID, variationID string) (*entity.StockLevel, error) {
	return r.stockLevel(productID, variationID, "")
}

// GetStockLevelForUpdate lee el stock bloqueando la fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción.
func (r *ProductRepo) GetStockLevelForUpdate(productID, variationID string) (*entity.StockLevel, error) {
	return r.stockLevel(productID, variationID, " FOR UPDATE")
}

func (r *ProductRepo) stockLevel(productID, variationID, suffix string) (*entity.StockLevel, error) {
	level := entity.StockLevel{ProductID: productID, VariationID: variationID}
	var err error
	if variationID != "" {
		query := `
			SELECT v.name, COALESCE(v.sku, ''), v.stock, v.min_stock
			FROM product_variations v
			WHERE v.id = $1 AND v.product_id = $2` + suffix
		err = r.q.QueryRow(context.Background(), query, variationID, productID).Scan(
			&level.Name, &level.SKU, &level.Stock, &level.MinStock,
		)
	} else {
		query := `
			SELECT name, sku, stock, min_stock
			FROM products WHERE id = $1` + suffix
		err = r.q.QueryRow(context.Background(), query, productID).Scan(
			&level.Name, &level.SKU, &level.Stock, &level.MinStock,
		)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sku %s/%s: %w", productID, variationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &level, nil
}

// UpdateStock escribe el contador del SKU referido.
func (r *ProductRepo) UpdateStock(productID, variationID string, stock int) error {
	var err error
	if variationID != "" {
		_, err = r.q.Exec(context.Background(),
			`UPDATE product_variations SET stock = $1 WHERE id = $2 AND product_id = $3`,
			stock, variationID, productID)
	} else {
		_, err = r.q.Exec(context.Background(),
			`UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`,
			stock, productID)
	}
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// ListLowStock devuelve los SKUs con stock <= stock mínimo: productos sin
// variaciones y variaciones, críticos primero.
func (r *ProductRepo) ListLowStock() ([]entity.StockLevel, error) {
	query := `
		SELECT product_id, variation_id, name, sku, stock, min_stock FROM (
			SELECT id AS product_id, '' AS variation_id, name, sku, stock, min_stock
			FROM products
			WHERE NOT has_variations AND active AND stock <= min_stock
			UNION ALL
			SELECT v.product_id, v.id, p.name || ' ' || v.name, COALESCE(v.sku, ''), v.stock, v.min_stock
			FROM product_variations v
			JOIN products p ON p.id = v.product_id
			WHERE p.active AND v.stock <= v.min_stock
		) low
		ORDER BY stock ASC, name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []entity.StockLevel
	for rows.Next() {
		var lv entity.StockLevel
		if err := rows.Scan(&lv.ProductID, &lv.VariationID, &lv.Name, &lv.SKU, &lv.Stock, &lv.MinStock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, lv)
	}
	return out, rows.Err()
}
