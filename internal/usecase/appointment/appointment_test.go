package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

// Sunday.
var testNow = time.Date(2024, 7, 21, 10, 15, 0, 0, time.UTC)

type env struct {
	store        *storage.Adapter
	appointments *repository.AppointmentRepository
	catalog      *repository.Catalog
	clients      *repository.ClientRepository
	employees    *repository.EmployeeRepository
	engine       *datasync.Engine
	clock        timezone.Clock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := storage.NewAdapter(storage.NewMemoryBackend(), nil)
	clock := timezone.FixedClock(testNow)

	store.Put(ctx, repository.KeyAppointments, []models.Appointment{})
	store.Put(ctx, repository.KeyClients, []models.Client{})
	store.Put(ctx, repository.KeyEmployees, []models.Employee{
		{ID: "e1", Name: "Matheus", Role: "gerente", Commission: 50},
		{ID: "e2", Name: "Alisson", Role: "barbeiro", Commission: 40},
	})

	return &env{
		store:        store,
		appointments: repository.NewAppointmentRepository(store, clock),
		catalog:      repository.NewCatalog(store, clock),
		clients:      repository.NewClientRepository(store, clock),
		employees:    repository.NewEmployeeRepository(store, clock),
		engine:       datasync.New(store, datasync.Options{Clock: clock}),
		clock:        clock,
	}
}

func (e *env) create(t *testing.T, in CreateAppointmentInput) *models.Appointment {
	t.Helper()
	ap, err := NewCreateAppointment(e.appointments, e.catalog, e.clients, nil).Execute(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	return ap
}

func (e *env) finish(in FinishAppointmentInput) (*FinishResult, error) {
	return NewFinishAppointment(e.appointments, e.catalog, e.employees, e.clients, e.engine, nil).
		Execute(context.Background(), in)
}

func TestCreateAppointmentConflict(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateAppointment(e.appointments, e.catalog, e.clients, nil)
	ctx := context.Background()

	in := CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-22", Time: "14:00", ServiceType: "corte"}
	ap, err := uc.Execute(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if ap.Status != string(domain.StatusScheduled) || ap.Price != 25 {
		t.Fatalf("appointment = %+v", ap)
	}

	in.ClientName = "Bia"
	if _, err := uc.Execute(ctx, in); !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateAppointment(e.appointments, e.catalog, e.clients, nil)

	tests := []struct {
		name string
		in   CreateAppointmentInput
		code string
	}{
		{"missing client", CreateAppointmentInput{Date: "2024-07-22", Time: "14:00", ServiceType: "corte"}, "required_field"},
		{"bad date", CreateAppointmentInput{ClientName: "Ana", Date: "22/07/2024", Time: "14:00", ServiceType: "corte"}, "invalid_date_or_time"},
		{"unpadded time", CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-22", Time: "9:00", ServiceType: "corte"}, "invalid_date_or_time"},
		{"unknown service", CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-22", Time: "09:00", ServiceType: "massagem"}, "invalid_service_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Execute(context.Background(), tt.in); !httperr.IsBusiness(err, tt.code) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestCreateRegistersNewClientOnce(t *testing.T) {
	e := newEnv(t)
	e.create(t, CreateAppointmentInput{ClientName: "Caio", NewClient: true, Date: "2024-07-22", Time: "10:00", ServiceType: "barba"})
	e.create(t, CreateAppointmentInput{ClientName: "Caio", NewClient: true, Date: "2024-07-23", Time: "10:00", ServiceType: "barba"})

	if n := len(e.clients.List(context.Background())); n != 1 {
		t.Fatalf("clients = %d", n)
	}
}

func TestFinishAppointmentFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ap := e.create(t, CreateAppointmentInput{ClientName: "Ana", NewClient: true, Date: "2024-07-21", Time: "11:00", ServiceType: "corte"})

	res, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID, PaymentType: "pix", Paid: true, EmployeeID: "e2"})
	if err != nil {
		t.Fatal(err)
	}

	stored, _ := e.appointments.Get(ctx, ap.ID)
	if !stored.Finished || !stored.Paid || stored.PaymentType != "pix" || stored.Employee != "Alisson" {
		t.Fatalf("appointment = %+v", stored)
	}
	if res.Sale == nil || res.Sale.CutID != res.Cut.ID {
		t.Fatalf("sale = %+v", res.Sale)
	}

	day := e.engine.DailyData(ctx)["2024-07-21"]
	if day.Profit != 25 || day.Cuts != 1 || day.Payments["pix"] != 25 {
		t.Fatalf("daily = %+v", day)
	}

	acts := e.engine.RecentActivities(ctx)
	if len(acts) != 1 || acts[0].Description != "Ana - Corte (PIX)" {
		t.Fatalf("activities = %+v", acts)
	}

	c, _ := e.clients.FindByName(ctx, "Ana")
	if c.CutsCount != 1 {
		t.Fatalf("cuts count = %d", c.CutsCount)
	}

	if _, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID, PaymentType: "pix"}); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("second finish: err = %v", err)
	}
}

func TestFinishFreesSlot(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-21", Time: "11:00", ServiceType: "corte"})
	if _, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID, PaymentType: "dinheiro"}); err != nil {
		t.Fatal(err)
	}

	e.create(t, CreateAppointmentInput{ClientName: "Bia", Date: "2024-07-21", Time: "11:00", ServiceType: "corte"})
}

func TestFinishDefaultsEmployeeAndPrice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap, _ := e.appointments.Create(ctx, models.Appointment{ClientName: "Leo", Date: "2024-07-21", Time: "12:00", ServiceType: "sobrancelha"})

	res, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID, PaymentType: "cartao", EmployeeID: "nope"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Appointment.Price != fallbackPrice {
		t.Fatalf("price = %v", res.Appointment.Price)
	}
	if res.Cut.Employee != "Matheus" {
		t.Fatalf("employee = %q", res.Cut.Employee)
	}
}

func TestFinishWithoutEmployees(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.Put(ctx, repository.KeyEmployees, []models.Employee{})

	ap := e.create(t, CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-21", Time: "15:00", ServiceType: "barba"})
	res, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID, PaymentType: "pix"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cut.Employee != noEmployee || res.Cut.EmployeeID != "" {
		t.Fatalf("cut = %+v", res.Cut)
	}
}

func TestFinishRequiresPaymentType(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-21", Time: "15:00", ServiceType: "barba"})

	if _, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID}); !httperr.IsBusiness(err, "required_field") {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID, PaymentType: "cheque"}); !httperr.IsBusiness(err, "invalid_payment_type") {
		t.Fatalf("err = %v", err)
	}
	if len(e.engine.CompletedCuts(context.Background())) != 0 {
		t.Fatal("no derived data on rejection")
	}
}

func TestWalkInCut(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := NewRegisterWalkInCut(e.appointments, e.catalog, e.clients, nil, e.clock)

	ap, err := uc.Execute(ctx, RegisterWalkInCutInput{ClientName: "Rui", ServiceType: "corte-barba"})
	if err != nil {
		t.Fatal(err)
	}
	if ap.Status != string(domain.StatusCompleted) || ap.Date != "2024-07-21" || ap.Time != "10:15" || ap.Finished {
		t.Fatalf("walk-in = %+v", ap)
	}

	// A walk-in never blocks a booking at the same minute.
	e.create(t, CreateAppointmentInput{ClientName: "Bia", Date: "2024-07-21", Time: "10:15", ServiceType: "corte"})

	if _, err := e.finish(FinishAppointmentInput{AppointmentID: ap.ID, PaymentType: "dinheiro"}); err != nil {
		t.Fatal(err)
	}
}

func TestCancelAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := NewCancelAppointment(e.appointments, nil)

	ap := e.create(t, CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-22", Time: "09:00", ServiceType: "corte"})
	if err := uc.Execute(ctx, "e1", ap.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.appointments.Get(ctx, ap.ID); !httperr.IsBusiness(err, "not_found") {
		t.Fatalf("err = %v", err)
	}

	done := e.create(t, CreateAppointmentInput{ClientName: "Bia", Date: "2024-07-22", Time: "10:00", ServiceType: "corte"})
	e.finish(FinishAppointmentInput{AppointmentID: done.ID, PaymentType: "pix"})
	if err := uc.Execute(ctx, "e1", done.ID); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("cancel finished: err = %v", err)
	}
}

func TestTogglePaid(t *testing.T) {
	e := newEnv(t)
	uc := NewTogglePaid(e.appointments, nil)
	ap := e.create(t, CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-22", Time: "09:00", ServiceType: "corte"})

	got, err := uc.Execute(context.Background(), "", ap.ID)
	if err != nil || !got.Paid {
		t.Fatalf("paid=%v err=%v", got, err)
	}
	got, _ = uc.Execute(context.Background(), "", ap.ID)
	if got.Paid {
		t.Fatal("second toggle should clear paid")
	}
}

func TestListCalendar(t *testing.T) {
	e := newEnv(t)
	e.create(t, CreateAppointmentInput{ClientName: "Ana", Date: "2024-07-24", Time: "09:00", ServiceType: "corte"})
	uc := NewListCalendar(e.appointments, e.clock)

	cal, err := uc.Execute(context.Background(), ListCalendarInput{View: "week", Anchor: "2024-07-24"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cal.Days) != 7 || cal.Days[0].Date != "2024-07-21" || !cal.Days[0].Today {
		t.Fatalf("week = %+v", cal.Days)
	}
	if len(cal.Days[3].Appointments) != 1 {
		t.Fatalf("wednesday = %+v", cal.Days[3])
	}

	if _, err := uc.Execute(context.Background(), ListCalendarInput{View: "year"}); !httperr.IsBusiness(err, "invalid_view") {
		t.Fatalf("err = %v", err)
	}
}
