package appointment

import (
	"sort"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

// DayAppointments returns the appointments on date ordered by time. Times
// are zero-padded HH:mm so string order is chronological.
func DayAppointments(list []models.Appointment, date string) []models.Appointment {
	out := []models.Appointment{}
	for _, ap := range list {
		if ap.Date == date {
			out = append(out, ap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// HasTimeConflict reports whether a scheduled appointment already occupies
// the candidate's date and time.
func HasTimeConflict(list []models.Appointment, candidate models.Appointment) bool {
	for _, ap := range list {
		if ap.ID == candidate.ID && ap.ID != "" {
			continue
		}
		if ap.Date == candidate.Date &&
			ap.Time == candidate.Time &&
			ap.Status == string(StatusScheduled) {
			return true
		}
	}
	return false
}
