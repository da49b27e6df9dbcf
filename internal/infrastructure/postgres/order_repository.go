package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
	"github.com/jmcasares/tienda-api/pkg/normalize"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con
// pool o tx). La columna search_text guarda número, nombre y email plegados
// (sin tildes) para la búsqueda del panel.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `
	id, order_number, access_token,
	customer_name, customer_email, COALESCE(customer_phone, ''), COALESCE(customer_address, ''),
	subtotal, vat, shipping_cost, total, total_before_discount, discount_percentage,
	status, payment_method,
	payment_status, COALESCE(transaction_id, ''), COALESCE(preference_id, ''), COALESCE(payment_url, ''),
	approved_at, expiration_date, COALESCE(payment_error, ''),
	COALESCE(notes, ''), version, created_at, updated_at`

// Create persiste la orden y sus líneas. Atómico cuando el repo está atado a una tx.
func (r *OrderRepo) Create(order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.Version = 1

	query := `
		INSERT INTO orders (
			id, order_number, access_token,
			customer_name, customer_email, customer_phone, customer_address,
			subtotal, vat, shipping_cost, total, total_before_discount, discount_percentage,
			status, payment_method,
			payment_status, transaction_id, preference_id, payment_url,
			approved_at, expiration_date, payment_error,
			notes, search_text, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.AccessToken,
		order.Customer.Name, order.Customer.Email,
		nullIfEmpty(order.Customer.Phone), nullIfEmpty(order.Customer.Address),
		order.Subtotal, order.VAT, order.ShippingCost, order.Total,
		order.TotalBeforeDiscount, order.DiscountPercentage,
		order.Status, order.PaymentMethod,
		order.Payment.Status, nullIfEmpty(order.Payment.TransactionID),
		nullIfEmpty(order.Payment.PreferenceID), nullIfEmpty(order.Payment.PaymentURL),
		order.Payment.ApprovedAt, order.Payment.ExpirationDate,
		nullIfEmpty(order.Payment.Error),
		nullIfEmpty(order.Notes),
		normalize.SearchText(order.OrderNumber, order.Customer.Name, order.Customer.Email),
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("orden duplicada: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		if err := r.createItem(&order.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) createItem(item *entity.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_items (id, order_id, product_id, variation_id, name, sku, medida, price, quantity, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ProductID, nullIfEmpty(item.VariationID),
		item.Name, nullIfEmpty(item.SKU), nullIfEmpty(item.Medida),
		item.Price, item.Quantity, nullIfEmpty(item.Image),
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene la orden con sus líneas. Devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.getBy("id = $1", id)
}

// GetByAccessToken obtiene la orden por su capability token.
func (r *OrderRepo) GetByAccessToken(token string) (*entity.Order, error) {
	return r.getBy("access_token = $1", token)
}

func (r *OrderRepo) getBy(where string, arg any) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where
	row := r.q.QueryRow(context.Background(), query, arg)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepo) loadItems(order *entity.Order) error {
	query := `
		SELECT id, order_id, product_id, COALESCE(variation_id, ''), name,
		       COALESCE(sku, ''), COALESCE(medida, ''), price, quantity, COALESCE(image, '')
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, order.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariationID,
			&it.Name, &it.SKU, &it.Medida, &it.Price, &it.Quantity, &it.Image); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, it)
	}
	return rows.Err()
}

// Update escribe la orden con control optimista sobre version: si otra
// escritura llegó antes, devuelve domain.ErrConflict y no pisa nada.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders SET
			customer_name = $1, customer_email = $2, customer_phone = $3, customer_address = $4,
			total_before_discount = $5, discount_percentage = $6,
			status = $7,
			payment_status = $8, transaction_id = $9, preference_id = $10, payment_url = $11,
			approved_at = $12, expiration_date = $13, payment_error = $14,
			notes = $15,
			search_text = $16,
			version = version + 1, updated_at = now()
		WHERE id = $17 AND version = $18`
	tag, err := r.q.Exec(context.Background(), query,
		order.Customer.Name, order.Customer.Email,
		nullIfEmpty(order.Customer.Phone), nullIfEmpty(order.Customer.Address),
		order.TotalBeforeDiscount, order.DiscountPercentage,
		order.Status,
		order.Payment.Status, nullIfEmpty(order.Payment.TransactionID),
		nullIfEmpty(order.Payment.PreferenceID), nullIfEmpty(order.Payment.PaymentURL),
		order.Payment.ApprovedAt, order.Payment.ExpirationDate,
		nullIfEmpty(order.Payment.Error),
		nullIfEmpty(order.Notes),
		normalize.SearchText(order.OrderNumber, order.Customer.Name, order.Customer.Email),
		order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orden %s versión %d: %w", order.ID, order.Version, domain.ErrConflict)
	}
	order.Version++
	return nil
}

// ClaimCompletion transición condicional y atómica a completed: un solo
// caller la gana aunque lleguen reclamos concurrentes. Refleja además la
// aprobación del pago en la misma escritura.
func (r *OrderRepo) ClaimCompletion(id string) (bool, error) {
	query := `
		UPDATE orders SET
			status = $1,
			payment_status = $2,
			approved_at = COALESCE(approved_at, now()),
			version = version + 1, updated_at = now()
		WHERE id = $3 AND status <> $1`
	tag, err := r.q.Exec(context.Background(), query,
		entity.OrderStatusCompleted, entity.PaymentStatusApproved, id)
	if err != nil {
		return false, fmt.Errorf("claim completion: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Search busca por texto plegado y/o estado, paginada, más recientes primero.
func (r *OrderRepo) Search(p repository.OrderSearchParams) ([]entity.Order, int, error) {
	where := "TRUE"
	args := []any{}
	if p.Query != "" {
		args = append(args, "%"+p.Query+"%")
		where += fmt.Sprintf(" AND search_text LIKE $%d", len(args))
	}
	if p.Status != "" {
		args = append(args, p.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders WHERE ` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, p.Limit, p.Offset)
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search orders: %w", err)
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range out {
		if err := r.loadItems(&out[i]); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// scanOrder mapea una fila (orderColumns) a la entidad.
func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.AccessToken,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&o.Subtotal, &o.VAT, &o.ShippingCost, &o.Total,
		&o.TotalBeforeDiscount, &o.DiscountPercentage,
		&o.Status, &o.PaymentMethod,
		&o.Payment.Status, &o.Payment.TransactionID, &o.Payment.PreferenceID, &o.Payment.PaymentURL,
		&o.Payment.ApprovedAt, &o.Payment.ExpirationDate, &o.Payment.Error,
		&o.Notes, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Payment.Method = o.PaymentMethod
	return &o, nil
}
