package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

// fallbackPrice is charged when neither the appointment nor the catalog
// knows the service.
const fallbackPrice = 35.0

const noEmployee = "Funcionário não definido"

type PriceLookup interface {
	PriceFor(ctx context.Context, kind string) (float64, bool)
}

type ClientRegistry interface {
	FindByName(ctx context.Context, name string) (models.Client, bool)
	Create(ctx context.Context, c models.Client) (models.Client, error)
	RecordCut(ctx context.Context, name string)
}

type EmployeeResolver interface {
	Resolve(ctx context.Context, id string) (models.Employee, bool)
}

// registerClient adds a walk-in or new client to the registry once.
func registerClient(ctx context.Context, clients ClientRegistry, name string) error {
	if _, ok := clients.FindByName(ctx, name); ok {
		return nil
	}
	_, err := clients.Create(ctx, models.Client{Name: name})
	return err
}
