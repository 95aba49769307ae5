package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

// ===============================
// Domain Actions
// ===============================

var paymentTypeNames = map[string]string{
	"dinheiro": "Dinheiro",
	"cartao":   "Cartão",
	"pix":      "PIX",
	"debito":   "Cartão de Débito",
	"credito":  "Cartão de Crédito",
}

func ValidPaymentType(p string) bool {
	_, ok := paymentTypeNames[p]
	return ok
}

func PaymentTypeName(p string) string {
	if n, ok := paymentTypeNames[p]; ok {
		return n
	}
	return p
}

type FinishDetails struct {
	PaymentType string
	Notes       string
	Paid        bool
	Price       float64
	Employee    string
	EmployeeID  string
}

// Finish stamps the payment on ap and frees its slot.
func Finish(ap *models.Appointment, d FinishDetails, now time.Time) error {
	if err := CanComplete(ap); err != nil {
		return err
	}
	if d.PaymentType == "" {
		return httperr.ErrBusinessMsg("required_field", "Selecione o tipo de pagamento!")
	}

	ap.Finished = true
	ap.Status = string(StatusCompleted)
	ap.Paid = d.Paid
	ap.PaymentType = d.PaymentType
	ap.FinishNotes = d.Notes
	ap.FinishedAt = now
	ap.Price = d.Price
	ap.Employee = d.Employee
	ap.EmployeeID = d.EmployeeID
	return nil
}

func TogglePaid(ap *models.Appointment) {
	ap.Paid = !ap.Paid
}
