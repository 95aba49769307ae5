package repository

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const (
	KeyServices = "barbearia_services"
	KeyProducts = "barbearia_products"
)

// ===============================
// Service types used by the agenda
// ===============================

type serviceType struct {
	name         string
	matches      []string
	defaultPrice float64
}

var serviceTypes = map[string]serviceType{
	"corte":       {name: "Corte", matches: []string{"Corte Masculino", "Corte"}, defaultPrice: 25},
	"barba":       {name: "Barba", matches: []string{"Barba Completa", "Barba"}, defaultPrice: 20},
	"corte-barba": {name: "Corte + Barba", matches: []string{"Corte + Barba"}, defaultPrice: 40},
}

func ValidServiceType(kind string) bool {
	_, ok := serviceTypes[kind]
	return ok
}

// ServiceName is the display name of an agenda service type.
func ServiceName(kind string) string {
	if st, ok := serviceTypes[kind]; ok {
		return st.name
	}
	return kind
}

type Catalog struct {
	services *Collection[models.Service]
	products *Collection[models.Product]
	clock    timezone.Clock
}

func NewCatalog(store *storage.Adapter, clock timezone.Clock) *Catalog {
	return &Catalog{
		services: NewCollection(store, KeyServices, seedServices,
			func(s *models.Service) string { return s.ID },
			func(s *models.Service, id string) { s.ID = id },
		),
		products: NewCollection(store, KeyProducts, seedProducts,
			func(p *models.Product) string { return p.ID },
			func(p *models.Product, id string) { p.ID = id },
		),
		clock: clock,
	}
}

// PriceFor resolves the price of an agenda service type from the first
// catalog service whose name contains one of the type's names. Without a
// match it falls back to the type's default; ok is false for unknown types.
func (c *Catalog) PriceFor(ctx context.Context, kind string) (price float64, ok bool) {
	st, known := serviceTypes[kind]
	if !known {
		return 0, false
	}
	for _, s := range c.services.LoadAll(ctx) {
		name := strings.ToLower(s.Name)
		for _, m := range st.matches {
			if strings.Contains(name, strings.ToLower(m)) {
				return s.Price, true
			}
		}
	}
	return st.defaultPrice, true
}

// ===============================
// Services
// ===============================

func (c *Catalog) Services(ctx context.Context) []models.Service {
	return c.services.LoadAll(ctx)
}

func (c *Catalog) CreateService(ctx context.Context, s models.Service) (models.Service, error) {
	s.Name = strings.TrimSpace(s.Name)
	if err := validateItem(s.Name, s.Price); err != nil {
		return s, err
	}
	s.ID = ""
	s.CreatedAt = c.clock()
	return c.services.Add(ctx, s)
}

func (c *Catalog) UpdateService(ctx context.Context, id string, patch map[string]any) (models.Service, error) {
	out, err := c.services.Mutate(ctx, id, func(s *models.Service) error {
		merged := *s
		if err := mergePatch(&merged, patch); err != nil {
			return httperr.ErrBusinessMsg("invalid_request", "Dados inválidos.")
		}
		if err := validateItem(merged.Name, merged.Price); err != nil {
			return err
		}
		*s = merged
		return nil
	})
	return out, notFound(err, "Serviço não encontrado.")
}

func (c *Catalog) DeleteService(ctx context.Context, id string) error {
	return notFound(c.services.Remove(ctx, id), "Serviço não encontrado.")
}

// ===============================
// Products
// ===============================

func (c *Catalog) Products(ctx context.Context) []models.Product {
	return c.products.LoadAll(ctx)
}

func (c *Catalog) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateItem(p.Name, p.Price); err != nil {
		return p, err
	}
	if p.Stock < 0 {
		return p, httperr.ErrBusinessMsg("invalid_stock", "Estoque inválido.")
	}
	p.ID = ""
	p.CreatedAt = c.clock()
	return c.products.Add(ctx, p)
}

func (c *Catalog) UpdateProduct(ctx context.Context, id string, patch map[string]any) (models.Product, error) {
	out, err := c.products.Mutate(ctx, id, func(p *models.Product) error {
		merged := *p
		if err := mergePatch(&merged, patch); err != nil {
			return httperr.ErrBusinessMsg("invalid_request", "Dados inválidos.")
		}
		if err := validateItem(merged.Name, merged.Price); err != nil {
			return err
		}
		if merged.Stock < 0 {
			return httperr.ErrBusinessMsg("invalid_stock", "Estoque inválido.")
		}
		*p = merged
		return nil
	})
	return out, notFound(err, "Produto não encontrado.")
}

func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	return notFound(c.products.Remove(ctx, id), "Produto não encontrado.")
}

// TakeStock decrements a product's stock by qty, refusing to go negative.
func (c *Catalog) TakeStock(ctx context.Context, id string, qty int) (models.Product, error) {
	out, err := c.products.Mutate(ctx, id, func(p *models.Product) error {
		if qty <= 0 || qty > p.Stock {
			return httperr.ErrBusinessMsg("insufficient_stock", "Estoque insuficiente.")
		}
		p.Stock -= qty
		return nil
	})
	return out, notFound(err, "Produto não encontrado.")
}

func validateItem(name string, price float64) error {
	if name == "" || price <= 0 {
		return required("Por favor, preencha todos os campos obrigatórios.")
	}
	return nil
}

func seedServices() []models.Service {
	return []models.Service{
		{ID: "1", Name: "Corte Masculino", Price: 25, Duration: 30, Description: "Corte tradicional masculino com acabamento"},
		{ID: "2", Name: "Barba Completa", Price: 20, Duration: 25, Description: "Aparar e modelar barba com navalha"},
		{ID: "3", Name: "Corte + Barba", Price: 40, Duration: 50, Description: "Pacote completo: corte de cabelo e barba"},
	}
}

func seedProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Pomada Modeladora", Price: 35, Stock: 15, Category: "cabelo", Description: "Pomada para modelar e fixar o cabelo"},
		{ID: "2", Name: "Óleo para Barba", Price: 28, Stock: 8, Category: "barba", Description: "Óleo hidratante para barba"},
		{ID: "3", Name: "Shampoo Anticaspa", Price: 22, Stock: 12, Category: "cabelo", Description: "Shampoo especial para combater a caspa"},
	}
}
