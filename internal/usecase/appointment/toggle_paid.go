package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

type TogglePaid struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewTogglePaid(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *TogglePaid {
	return &TogglePaid{
		repo:  repo,
		audit: audit,
	}
}

func (uc *TogglePaid) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.Modify(ctx, appointmentID, func(a *models.Appointment) error {
		domain.TogglePaid(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_payment_toggled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"paid": ap.Paid},
	})

	return &ap, nil
}
