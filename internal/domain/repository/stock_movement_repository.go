package repository

import "github.com/jmcasares/tienda-api/internal/domain/entity"

// MovementFilter filtros para el listado paginado del libro de movimientos.
type MovementFilter struct {
	Type      string // IN | OUT | vacío = todos
	ProductID string
	Limit     int
	Offset    int
}

// StockMovementRepository persistencia del libro de movimientos (append-only).
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	// List devuelve la página de movimientos (más recientes primero) y el total.
	List(f MovementFilter) ([]entity.StockMovement, int, error)
}
