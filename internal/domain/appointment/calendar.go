package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewDay, ViewWeek, ViewMonth:
		return ViewMode(s), nil
	case "":
		return ViewDay, nil
	}
	return "", httperr.ErrBusinessMsg("invalid_view", "Visualização inválida.")
}

type CalendarDay struct {
	Date         string               `json:"date"`
	Weekday      int                  `json:"weekday"`
	Today        bool                 `json:"today"`
	Appointments []models.Appointment `json:"appointments"`
}

// Calendar is one rendered period. LeadingBlanks is only set for the month
// grid: the number of empty cells before the 1st so it lands on its weekday.
type Calendar struct {
	Mode          ViewMode      `json:"mode"`
	Anchor        string        `json:"anchor"`
	Previous      string        `json:"previous"`
	Next          string        `json:"next"`
	LeadingBlanks int           `json:"leadingBlanks"`
	Days          []CalendarDay `json:"days"`
}

func BuildCalendar(list []models.Appointment, mode ViewMode, anchor, now time.Time) Calendar {
	var dates []time.Time
	leading := 0

	switch mode {
	case ViewWeek:
		dates = WeekDates(anchor)
	case ViewMonth:
		leading, dates = MonthGrid(anchor)
	default:
		mode = ViewDay
		dates = []time.Time{timezone.StartOfDay(anchor)}
	}

	today := timezone.DateKey(now)
	days := make([]CalendarDay, 0, len(dates))
	for _, d := range dates {
		key := timezone.DateKey(d)
		days = append(days, CalendarDay{
			Date:         key,
			Weekday:      int(d.Weekday()),
			Today:        key == today,
			Appointments: DayAppointments(list, key),
		})
	}

	return Calendar{
		Mode:          mode,
		Anchor:        timezone.DateKey(anchor),
		Previous:      timezone.DateKey(Navigate(anchor, mode, -1)),
		Next:          timezone.DateKey(Navigate(anchor, mode, 1)),
		LeadingBlanks: leading,
		Days:          days,
	}
}

// WeekDates returns Sunday through Saturday of the week holding anchor.
func WeekDates(anchor time.Time) []time.Time {
	start := timezone.StartOfDay(anchor)
	start = start.AddDate(0, 0, -int(start.Weekday()))

	out := make([]time.Time, 7)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// MonthGrid returns every day of anchor's month and how many blank cells
// precede the 1st. The grid has no trailing padding.
func MonthGrid(anchor time.Time) (leading int, days []time.Time) {
	y, m, _ := anchor.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, anchor.Location())

	n := daysIn(y, m, anchor.Location())
	days = make([]time.Time, n)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return int(first.Weekday()), days
}

// Navigate moves anchor one period in direction step (-1 or +1). Month steps
// clamp to the last valid day, so Jan 31 + 1 month is Feb 28 (or 29).
func Navigate(anchor time.Time, mode ViewMode, step int) time.Time {
	switch mode {
	case ViewWeek:
		return anchor.AddDate(0, 0, 7*step)
	case ViewMonth:
		return AddMonthsClamped(anchor, step)
	default:
		return anchor.AddDate(0, 0, step)
	}
}

func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())

	ty, tm, _ := target.Date()
	if last := daysIn(ty, tm, t.Location()); d > last {
		d = last
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}
