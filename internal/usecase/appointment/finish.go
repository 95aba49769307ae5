package appointment

import (
	"context"
	"fmt"
	"log"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/metrics"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

type FinishAppointmentInput struct {
	ActorID       string
	AppointmentID string
	PaymentType   string
	Paid          bool
	Notes         string
	EmployeeID    string
}

type FinishResult struct {
	Appointment models.Appointment  `json:"appointment"`
	Cut         models.CompletedCut `json:"cut"`
	Sale        *models.Sale        `json:"sale,omitempty"`
}

// FinishAppointment closes an appointment and feeds the derived data: the
// completed cut (with its cross-posted sale), today's aggregate and the
// activity feed. The appointment is written first; the derived writes that
// follow are best effort and not rolled back.
type FinishAppointment struct {
	repo      domain.Repository
	catalog   PriceLookup
	employees EmployeeResolver
	clients   ClientRegistry
	engine    *datasync.Engine
	audit     *audit.Dispatcher
}

func NewFinishAppointment(
	repo domain.Repository,
	catalog PriceLookup,
	employees EmployeeResolver,
	clients ClientRegistry,
	engine *datasync.Engine,
	audit *audit.Dispatcher,
) *FinishAppointment {
	return &FinishAppointment{
		repo:      repo,
		catalog:   catalog,
		employees: employees,
		clients:   clients,
		engine:    engine,
		audit:     audit,
	}
}

func (uc *FinishAppointment) Execute(
	ctx context.Context,
	in FinishAppointmentInput,
) (*FinishResult, error) {

	if in.PaymentType != "" && !domain.ValidPaymentType(in.PaymentType) {
		return nil, httperr.ErrBusinessMsg("invalid_payment_type", "Forma de pagamento inválida.")
	}

	current, err := uc.repo.Get(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	price := current.Price
	if price == 0 {
		if p, ok := uc.catalog.PriceFor(ctx, current.ServiceType); ok {
			price = p
		} else {
			price = fallbackPrice
		}
	}

	employeeName := noEmployee
	var employeeID string
	if emp, ok := uc.employees.Resolve(ctx, in.EmployeeID); ok {
		employeeName = emp.Name
		employeeID = emp.ID
	}

	now := uc.engine.Now()

	// --------------------------------------------------
	// source of truth
	// --------------------------------------------------
	ap, err := uc.repo.Modify(ctx, in.AppointmentID, func(a *models.Appointment) error {
		return domain.Finish(a, domain.FinishDetails{
			PaymentType: in.PaymentType,
			Notes:       in.Notes,
			Paid:        in.Paid,
			Price:       price,
			Employee:    employeeName,
			EmployeeID:  employeeID,
		}, now)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// derived data
	// --------------------------------------------------
	service := repository.ServiceName(ap.ServiceType)
	clock := now.Format(timezone.TimeLayout)

	cut, sale := uc.engine.RegisterCutWithEmployee(ctx, datasync.CutInput{
		Client:        ap.ClientName,
		Service:       service,
		Price:         price,
		PaymentMethod: in.PaymentType,
		Employee:      employeeName,
		EmployeeID:    employeeID,
		Time:          clock,
		Notes:         in.Notes,
	})

	uc.engine.AddDailyProfit(ctx, price, in.PaymentType, models.ServiceRecord{
		Client:        ap.ClientName,
		Service:       service,
		Employee:      employeeName,
		AppointmentID: ap.ID,
	})

	uc.engine.AddRecentActivity(ctx, datasync.ActivityInput{
		Type:        "service",
		Title:       "Corte Finalizado",
		Description: fmt.Sprintf("%s - %s (%s)", ap.ClientName, service, domain.PaymentTypeName(in.PaymentType)),
	})

	uc.clients.RecordCut(ctx, ap.ClientName)

	metrics.CutsFinished.Inc()
	if sale != nil {
		metrics.SalesRegistered.WithLabelValues(models.SaleService).Inc()
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_finished",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"price":       price,
			"paymentType": in.PaymentType,
			"employeeId":  employeeID,
		},
	})

	log.Printf("[agenda] %s finished by %s (R$ %.2f %s)", ap.ClientName, employeeName, price, in.PaymentType)

	return &FinishResult{Appointment: ap, Cut: cut, Sale: sale}, nil
}
