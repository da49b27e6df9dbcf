package repository

import "github.com/jmcasares/tienda-api/internal/domain/entity"

// OrderSearchParams filtros para la búsqueda de órdenes del panel admin.
// Query se compara contra número de orden, nombre y email del cliente
// (texto normalizado, sin tildes).
type OrderSearchParams struct {
	Query  string
	Status string
	Limit  int
	Offset int
}

// OrderRepository persistencia de órdenes y sus líneas.
type OrderRepository interface {
	// Create persiste la orden con sus líneas. Atómico si el repo está atado a una tx.
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	GetByAccessToken(token string) (*entity.Order, error)
	// Update escribe la orden con control optimista: falla con domain.ErrConflict
	// si Version no coincide con la fila almacenada. Incrementa Version en memoria.
	Update(order *entity.Order) error
	// ClaimCompletion pasa la orden a completed de forma condicional y atómica.
	// Devuelve true solo para el primer caller que logra la transición; los
	// reintentos (concurrentes o secuenciales) reciben false.
	ClaimCompletion(id string) (bool, error)
	// Search devuelve la página de órdenes y el total de coincidencias.
	Search(p OrderSearchParams) ([]entity.Order, int, error)
}
