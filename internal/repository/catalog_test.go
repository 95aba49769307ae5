package repository

import (
	"context"
	"testing"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

func TestPriceForUsesCatalog(t *testing.T) {
	cat := NewCatalog(newStore(), fixedClock())
	ctx := context.Background()

	cases := map[string]float64{"corte": 25, "barba": 20, "corte-barba": 40}
	for kind, want := range cases {
		if got, ok := cat.PriceFor(ctx, kind); !ok || got != want {
			t.Errorf("%s: %v %v", kind, got, ok)
		}
	}

	cat.UpdateService(ctx, "2", map[string]any{"price": 22.5})
	if got, _ := cat.PriceFor(ctx, "barba"); got != 22.5 {
		t.Fatalf("barba after update %v", got)
	}
	if _, ok := cat.PriceFor(ctx, "sobrancelha"); ok {
		t.Fatal("unknown type resolved")
	}
}

func TestPriceForFallsBackToDefault(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	store.Put(ctx, KeyServices, []models.Service{{ID: "x", Name: "Hidratação", Price: 50}})
	cat := NewCatalog(store, fixedClock())

	if got, _ := cat.PriceFor(ctx, "corte-barba"); got != 40 {
		t.Fatalf("got %v", got)
	}
	if ServiceName("corte-barba") != "Corte + Barba" {
		t.Fatal("name")
	}
}

func TestCatalogValidation(t *testing.T) {
	cat := NewCatalog(newStore(), fixedClock())
	ctx := context.Background()

	if _, err := cat.CreateService(ctx, models.Service{Name: "Pezinho", Price: 0}); !httperr.IsBusiness(err, "required_field") {
		t.Fatalf("zero price: %v", err)
	}
	if _, err := cat.CreateProduct(ctx, models.Product{Name: "Cera", Price: 10, Stock: -1}); !httperr.IsBusiness(err, "invalid_stock") {
		t.Fatalf("negative stock: %v", err)
	}
	p, err := cat.TakeStock(ctx, "2", 8)
	if err != nil || p.Stock != 0 {
		t.Fatalf("take stock: %v %+v", err, p)
	}
	if _, err := cat.TakeStock(ctx, "2", 1); !httperr.IsBusiness(err, "insufficient_stock") {
		t.Fatalf("empty stock: %v", err)
	}
}
