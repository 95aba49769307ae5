package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
)

// CancelAppointment removes an appointment that has not been finished.
type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) error {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return err
	}

	if err := domain.CanCancel(&ap); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, appointmentID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"client": ap.ClientName, "date": ap.Date, "time": ap.Time},
	})

	return nil
}
