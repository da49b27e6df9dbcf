package inventory

import (
	"context"

	"github.com/jmcasares/tienda-api/internal/application/dto"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

// LowStockUseCase lista los SKUs en o por debajo de su stock mínimo, para la
// pantalla de reposición del panel admin.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(productRepo repository.ProductRepository) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo}
}

// List devuelve los SKUs que necesitan reposición, los críticos (stock <= 0) primero.
func (uc *LowStockUseCase) List(_ context.Context) ([]dto.LowStockDTO, error) {
	levels, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0, len(levels))
	for _, lv := range levels {
		out = append(out, dto.LowStockDTO{
			ProductID:   lv.ProductID,
			VariationID: lv.VariationID,
			Name:        lv.Name,
			SKU:         lv.SKU,
			Stock:       lv.Stock,
			MinStock:    lv.MinStock,
			Critical:    lv.Stock <= 0,
		})
	}
	return out, nil
}
