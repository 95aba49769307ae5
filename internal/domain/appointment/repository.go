package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

type Repository interface {
	List(ctx context.Context) []models.Appointment

	Get(ctx context.Context, id string) (models.Appointment, error)

	// Create inserts ap unless a scheduled appointment already holds its
	// (date, time); the check and the insert happen under one lock.
	Create(ctx context.Context, ap models.Appointment) (models.Appointment, error)

	Modify(
		ctx context.Context,
		id string,
		fn func(*models.Appointment) error,
	) (models.Appointment, error)

	Delete(ctx context.Context, id string) error
}
