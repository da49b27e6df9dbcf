package checkout_test

import (
	"context"
	"sync"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/application/inventory"
	"github.com/jmcasares/tienda-api/internal/domain"
	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de checkout
// ──────────────────────────────────────────────────────────────────────────────

// fakeProductRepo catálogo en memoria, solo lectura.
type fakeProductRepo struct {
	products   map[string]*entity.Product
	variations map[string]*entity.Variation // key: productID+"/"+variationID
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:   map[string]*entity.Product{},
		variations: map[string]*entity.Variation{},
	}
}

func (r *fakeProductRepo) addProduct(p entity.Product) {
	r.products[p.ID] = &p
}

func (r *fakeProductRepo) addVariation(v entity.Variation) {
	r.variations[v.ProductID+"/"+v.ID] = &v
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetVariation(productID, variationID string) (*entity.Variation, error) {
	return r.variations[productID+"/"+variationID], nil
}

func (r *fakeProductRepo) GetStockLevel(productID, variationID string) (*entity.StockLevel, error) {
	return r.GetStockLevelForUpdate(productID, variationID)
}

func (r *fakeProductRepo) GetStockLevelForUpdate(productID, variationID string) (*entity.StockLevel, error) {
	if variationID != "" {
		v, ok := r.variations[productID+"/"+variationID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return &entity.StockLevel{
			ProductID: productID, VariationID: variationID,
			Name: v.Name, SKU: v.SKU, Stock: v.Stock, MinStock: v.MinStock,
		}, nil
	}
	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entity.StockLevel{
		ProductID: productID,
		Name:      p.Name, SKU: p.SKU, Stock: p.Stock, MinStock: p.MinStock,
	}, nil
}

func (r *fakeProductRepo) UpdateStock(productID, variationID string, stock int) error {
	if variationID != "" {
		v, ok := r.variations[productID+"/"+variationID]
		if !ok {
			return domain.ErrNotFound
		}
		v.Stock = stock
		return nil
	}
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *fakeProductRepo) ListLowStock() ([]entity.StockLevel, error) { return nil, nil }

// fakeOrderRepo órdenes en memoria con semántica de reclamo de completado.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entity.Order{}}
}

func (r *fakeOrderRepo) Create(order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.Version = 1
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeOrderRepo) GetByAccessToken(token string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.AccessToken == token {
			clone := *o
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Update(order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != order.Version {
		return domain.ErrConflict
	}
	order.Version++
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) ClaimCompletion(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if stored.Status == entity.OrderStatusCompleted {
		return false, nil
	}
	stored.Status = entity.OrderStatusCompleted
	stored.Payment.Status = entity.PaymentStatusApproved
	stored.Version++
	return true, nil
}

func (r *fakeOrderRepo) Search(p repository.OrderSearchParams) ([]entity.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if p.Status != "" && o.Status != p.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

// fakeTxRunner pasa el repo directo, sin transacción real.
type fakeTxRunner struct {
	orderRepo repository.OrderRepository
}

func (r *fakeTxRunner) RunOrder(_ context.Context, fn func(repository.OrderRepository) error) error {
	return fn(r.orderRepo)
}

// fakeGateway pasarela configurable por test.
type fakeGateway struct {
	pref        *checkout.PreferenceResult
	prefErr     error
	payment     *checkout.PaymentInfo
	paymentErr  error
	createCalls int
}

func (g *fakeGateway) CreatePreference(_ context.Context, _ *entity.Order) (*checkout.PreferenceResult, error) {
	g.createCalls++
	if g.prefErr != nil {
		return nil, g.prefErr
	}
	return g.pref, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, _ string) (*checkout.PaymentInfo, error) {
	if g.paymentErr != nil {
		return nil, g.paymentErr
	}
	return g.payment, nil
}

// fakeMailer registra los envíos; puede fallar a pedido.
type fakeMailer struct {
	sent []string // order numbers
	err  error
}

func (m *fakeMailer) SendOrderConfirmation(order *entity.Order) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, order.OrderNumber)
	return nil
}

// fakeLedger registra las mutaciones de stock aplicadas; puede fallar por SKU.
type fakeLedger struct {
	mu      sync.Mutex
	applied []inventory.MovementInput
	failFor map[string]error // key: productID
}

func (l *fakeLedger) Apply(_ context.Context, in inventory.MovementInput) (*inventory.MovementResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, ok := l.failFor[in.ProductID]; ok {
		return nil, err
	}
	l.applied = append(l.applied, in)
	return &inventory.MovementResult{}, nil
}
