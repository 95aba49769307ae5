package repository

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const KeyAppointments = "appointments"

type AppointmentRepository struct {
	col   *Collection[models.Appointment]
	clock timezone.Clock
}

var _ domain.Repository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(store *storage.Adapter, clock timezone.Clock) *AppointmentRepository {
	r := &AppointmentRepository{clock: clock}
	r.col = NewCollection(store, KeyAppointments, r.seed,
		func(a *models.Appointment) string { return a.ID },
		func(a *models.Appointment, id string) { a.ID = id },
	)
	return r
}

func (r *AppointmentRepository) seed() []models.Appointment {
	now := r.clock()
	return []models.Appointment{
		{
			ID:          "1",
			ClientName:  "João Silva",
			Date:        timezone.DateKey(now),
			Time:        "14:00",
			ServiceType: "corte",
			Price:       serviceTypes["corte"].defaultPrice,
			Status:      string(domain.StatusScheduled),
			CreatedAt:   now,
		},
		{
			ID:          "2",
			ClientName:  "Pedro Santos",
			Date:        timezone.DateKey(now.AddDate(0, 0, 1)),
			Time:        "16:30",
			ServiceType: "corte-barba",
			Price:       serviceTypes["corte-barba"].defaultPrice,
			Status:      string(domain.StatusScheduled),
			CreatedAt:   now,
		},
	}
}

func (r *AppointmentRepository) List(ctx context.Context) []models.Appointment {
	return r.col.LoadAll(ctx)
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (models.Appointment, error) {
	ap, ok := r.col.Find(ctx, id)
	if !ok {
		return ap, httperr.ErrBusinessMsg("not_found", "Agendamento não encontrado!")
	}
	return ap, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, ap models.Appointment) (models.Appointment, error) {
	ap.ClientName = strings.TrimSpace(ap.ClientName)
	if ap.ID == "" {
		ap.ID = newID()
	}
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}
	if ap.CreatedAt.IsZero() {
		ap.CreatedAt = r.clock()
	}

	err := r.col.Apply(ctx, func(all []models.Appointment) ([]models.Appointment, error) {
		if ap.Status == string(domain.StatusScheduled) && domain.HasTimeConflict(all, ap) {
			return nil, httperr.ErrBusinessMsg("time_conflict", "Já existe um agendamento para este horário!")
		}
		return append(all, ap), nil
	})
	return ap, err
}

func (r *AppointmentRepository) Modify(
	ctx context.Context,
	id string,
	fn func(*models.Appointment) error,
) (models.Appointment, error) {
	ap, err := r.col.Mutate(ctx, id, fn)
	return ap, notFound(err, "Agendamento não encontrado!")
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.col.Remove(ctx, id), "Agendamento não encontrado!")
}
