package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/application/orders"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

// stubOrderRepo captura los parámetros de búsqueda y devuelve lo configurado.
type stubOrderRepo struct {
	lastParams repository.OrderSearchParams
	orders     []entity.Order
	total      int
	byToken    *entity.Order
}

func (r *stubOrderRepo) Create(*entity.Order) error                { return nil }
func (r *stubOrderRepo) GetByID(string) (*entity.Order, error)     { return nil, nil }
func (r *stubOrderRepo) Update(*entity.Order) error                { return nil }
func (r *stubOrderRepo) ClaimCompletion(string) (bool, error)      { return false, nil }
func (r *stubOrderRepo) GetByAccessToken(string) (*entity.Order, error) {
	return r.byToken, nil
}

func (r *stubOrderRepo) Search(p repository.OrderSearchParams) ([]entity.Order, int, error) {
	r.lastParams = p
	return r.orders, r.total, nil
}

// La búsqueda normaliza el texto (minúsculas, sin tildes) antes de ir al repo.
func TestSearch_NormalizaElTexto(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := orders.NewQueryService(repo)

	_, err := svc.Search(context.Background(), dto.OrderSearchRequest{Query: "  María PÉREZ "})
	require.NoError(t, err)
	assert.Equal(t, "maria perez", repo.lastParams.Query)
}

func TestSearch_PaginacionPorDefecto(t *testing.T) {
	repo := &stubOrderRepo{total: 45}
	svc := orders.NewQueryService(repo)

	resp, err := svc.Search(context.Background(), dto.OrderSearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 20, repo.lastParams.Limit)
	assert.Equal(t, 0, repo.lastParams.Offset)
	assert.Equal(t, 45, resp.Page.Total)
}

func TestSearch_EstadoInvalido(t *testing.T) {
	svc := orders.NewQueryService(&stubOrderRepo{})

	_, err := svc.Search(context.Background(), dto.OrderSearchRequest{Status: "enviada"})
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))
}

func TestGetByAccessToken(t *testing.T) {
	t.Run("orden encontrada", func(t *testing.T) {
		repo := &stubOrderRepo{byToken: &entity.Order{ID: "order-1"}}
		svc := orders.NewQueryService(repo)

		order, err := svc.GetByAccessToken(context.Background(), "token-abc")
		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("token desconocido", func(t *testing.T) {
		svc := orders.NewQueryService(&stubOrderRepo{})
		_, err := svc.GetByAccessToken(context.Background(), "token-xyz")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("token vacío", func(t *testing.T) {
		svc := orders.NewQueryService(&stubOrderRepo{})
		_, err := svc.GetByAccessToken(context.Background(), "")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}
