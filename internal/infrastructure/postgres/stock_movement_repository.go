package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persistencia del libro de movimientos (append-only: solo
// INSERT y SELECT, nunca UPDATE ni DELETE).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega una fila al libro.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements
			(id, product_id, variation_id, type, reason, quantity, previous_stock, new_stock, order_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, nullIfEmpty(m.VariationID), m.Type, m.Reason,
		m.Quantity, m.PreviousStock, m.NewStock, nullIfEmpty(m.OrderToken), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List devuelve la página de movimientos (más recientes primero) y el total.
func (r *StockMovementRepo) List(f repository.MovementFilter) ([]entity.StockMovement, int, error) {
	where := "TRUE"
	args := []any{}
	if f.Type != "" {
		args = append(args, f.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where += fmt.Sprintf(" AND product_id = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM stock_movements WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT id, product_id, COALESCE(variation_id, ''), type, reason,
		       quantity, previous_stock, new_stock, COALESCE(order_token, ''), created_at
		FROM stock_movements WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.VariationID, &m.Type, &m.Reason,
			&m.Quantity, &m.PreviousStock, &m.NewStock, &m.OrderToken, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}
