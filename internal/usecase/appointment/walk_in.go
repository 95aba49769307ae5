package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

type RegisterWalkInCutInput struct {
	ActorID     string
	ClientName  string
	NewClient   bool
	ServiceType string
	Notes       string
}

// RegisterWalkInCut books a cut done right now without a prior appointment.
// It is stored as completed, so it never holds a slot, and still has to be
// finished to reach the register.
type RegisterWalkInCut struct {
	repo    domain.Repository
	catalog PriceLookup
	clients ClientRegistry
	audit   *audit.Dispatcher
	clock   timezone.Clock
}

func NewRegisterWalkInCut(
	repo domain.Repository,
	catalog PriceLookup,
	clients ClientRegistry,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *RegisterWalkInCut {
	return &RegisterWalkInCut{
		repo:    repo,
		catalog: catalog,
		clients: clients,
		audit:   audit,
		clock:   clock,
	}
}

func (uc *RegisterWalkInCut) Execute(
	ctx context.Context,
	in RegisterWalkInCutInput,
) (*models.Appointment, error) {

	name := strings.TrimSpace(in.ClientName)
	if name == "" || in.ServiceType == "" {
		return nil, httperr.ErrBusinessMsg("required_field", "Por favor, preencha todos os campos!")
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

	now := uc.clock()
	ap, err := uc.repo.Create(ctx, models.Appointment{
		ClientName:  name,
		Date:        timezone.DateKey(now),
		Time:        now.Format(timezone.TimeLayout),
		ServiceType: in.ServiceType,
		Price:       price,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      string(domain.StatusCompleted),
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "walk_in_registered",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"price": price},
	})

	return &ap, nil
}
