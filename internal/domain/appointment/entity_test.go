package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

func TestFinish(t *testing.T) {
	ap := &models.Appointment{ID: "1", Status: "scheduled", Price: 0}
	now := time.Date(2024, 7, 21, 15, 0, 0, 0, time.UTC)

	err := Finish(ap, FinishDetails{PaymentType: "pix", Paid: true, Price: 25, Employee: "Alisson"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !ap.Finished || ap.Status != "completed" || !ap.Paid || ap.Price != 25 || !ap.FinishedAt.Equal(now) {
		t.Fatalf("finished %+v", ap)
	}

	if err := Finish(ap, FinishDetails{PaymentType: "pix"}, now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("second finish: %v", err)
	}
	if err := CanCancel(ap); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("cancel finished: %v", err)
	}
}

func TestFinishRequiresPaymentType(t *testing.T) {
	ap := &models.Appointment{Status: "scheduled"}
	if err := Finish(ap, FinishDetails{}, time.Now()); !httperr.IsBusiness(err, "required_field") {
		t.Fatalf("err = %v", err)
	}
	if ap.Finished {
		t.Fatal("must not mutate on error")
	}
}

func TestPaymentTypeName(t *testing.T) {
	if PaymentTypeName("debito") != "Cartão de Débito" {
		t.Fatal("debito")
	}
	if PaymentTypeName("plano") != "plano" {
		t.Fatal("unknown should pass through")
	}
}
