// Package orders expone el lado de lectura de órdenes: búsqueda paginada para
// el panel admin y consulta puntual por access token para el cliente.
package orders

import (
	"context"

	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
	"github.com/jmcasares/tienda-api/pkg/normalize"
)

// QueryService wrapper fino sobre el repositorio de órdenes.
type QueryService struct {
	orderRepo repository.OrderRepository
}

// NewQueryService construye el servicio.
func NewQueryService(orderRepo repository.OrderRepository) *QueryService {
	return &QueryService{orderRepo: orderRepo}
}

// Search busca órdenes por texto libre (número, nombre o email, sin tildes)
// y/o estado, con paginación.
func (s *QueryService) Search(_ context.Context, in dto.OrderSearchRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !entity.IsValidOrderStatus(in.Status) {
		return nil, domain.ErrInvalidStatus
	}

	found, total, err := s.orderRepo.Search(repository.OrderSearchParams{
		Query:  normalize.Fold(in.Query),
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.OrderListResponse{
		Orders: make([]dto.OrderDTO, 0, len(found)),
		Page:   dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for i := range found {
		resp.Orders = append(resp.Orders, dto.FromOrder(&found[i]))
	}
	return resp, nil
}

// GetByAccessToken devuelve la orden referida por su capability token.
func (s *QueryService) GetByAccessToken(_ context.Context, accessToken string) (*entity.Order, error) {
	if accessToken == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := s.orderRepo.GetByAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
