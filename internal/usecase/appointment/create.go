package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ActorID string

	ClientName string
	NewClient  bool

	Date        string
	Time        string
	ServiceType string
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	catalog PriceLookup
	clients ClientRegistry
	audit   *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	catalog PriceLookup,
	clients ClientRegistry,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		catalog: catalog,
		clients: clients,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	name := strings.TrimSpace(in.ClientName)
	if name == "" || in.Date == "" || in.Time == "" || in.ServiceType == "" {
		return nil, httperr.ErrBusinessMsg("required_field", "Por favor, preencha todos os campos obrigatórios!")
	}

	if _, err := timezone.ParseDate(in.Date, time.UTC); err != nil {
		return nil, httperr.ErrBusinessMsg("invalid_date_or_time", "Data inválida.")
	}
	if !validClock(in.Time) {
		return nil, httperr.ErrBusinessMsg("invalid_date_or_time", "Horário inválido.")
	}

	price, ok := uc.catalog.PriceFor(ctx, in.ServiceType)
	if !ok {
		return nil, httperr.ErrBusinessMsg("invalid_service_type", "Tipo de serviço inválido.")
	}

	if in.NewClient {
		if err := registerClient(ctx, uc.clients, name); err != nil {
			return nil, err
		}
	}

	ap, err := uc.repo.Create(ctx, models.Appointment{
		ClientName:  name,
		Date:        in.Date,
		Time:        in.Time,
		ServiceType: in.ServiceType,
		Price:       price,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      string(domain.InitialStatus()),
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return &ap, nil
}

// validClock accepts zero-padded HH:mm only, so slots sort as strings.
func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := timezone.ParseClock(s)
	return err == nil
}
