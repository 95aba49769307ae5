package appointment

import (
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

// ===============================
// Validations
// ===============================

// CanCancel: finished work stays on the books
func CanCancel(ap *models.Appointment) error {
	if ap.Finished {
		return httperr.ErrBusinessMsg("invalid_state", "Agendamento já finalizado não pode ser cancelado.")
	}
	return nil
}

// CanComplete: an appointment is finished once
func CanComplete(ap *models.Appointment) error {
	if ap.Finished {
		return httperr.ErrBusinessMsg("invalid_state", "Agendamento já finalizado.")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
