package datasync

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const unknownClient = "Cliente não informado"

type CommissionService struct {
	Client     string  `json:"client"`
	Service    string  `json:"service"`
	Price      float64 `json:"price"`
	Date       string  `json:"date"`
	Commission float64 `json:"commission"`
}

type EmployeeCommission struct {
	EmployeeID      string              `json:"employeeId"`
	EmployeeName    string              `json:"employeeName"`
	Role            string              `json:"role"`
	CommissionRate  float64             `json:"commissionRate"`
	TotalRevenue    float64             `json:"totalRevenue"`
	TotalCommission float64             `json:"totalCommission"`
	CutsCount       int                 `json:"cutsCount"`
	Services        []CommissionService `json:"services"`
	Period          string              `json:"period"`
	StartDate       string              `json:"startDate"`
	EndDate         string              `json:"endDate"`
}

// PeriodRange resolves a named period to an inclusive date range ending
// today. Weeks start on Sunday and months on day 1. Unknown names mean today.
func PeriodRange(period string, now time.Time) (string, string) {
	today := timezone.StartOfDay(now)
	end := timezone.DateKey(today)

	switch period {
	case PeriodWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return timezone.DateKey(start), end
	case PeriodMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return timezone.DateKey(start), end
	default:
		return end, end
	}
}

// CalculateEmployeeCommissions reports every employee's commission over a
// named period.
func (e *Engine) CalculateEmployeeCommissions(ctx context.Context, period string) []EmployeeCommission {
	start, end := PeriodRange(period, e.clock())
	return e.CommissionsForRange(ctx, start, end, period)
}

// CommissionsForRange joins completed cuts and service sales dated within
// [start, end] to each employee by name or id. Unless deduplication is on,
// a cut that was cross-posted as a sale counts twice.
func (e *Engine) CommissionsForRange(ctx context.Context, start, end, label string) []EmployeeCommission {
	employees := storage.Get(ctx, e.store, KeyEmployees, []models.Employee{})
	cuts := e.CompletedCuts(ctx)
	sales := e.Sales(ctx)

	out := make([]EmployeeCommission, 0, len(employees))
	for _, emp := range employees {
		rate := emp.Commission
		rep := EmployeeCommission{
			EmployeeID:     emp.ID,
			EmployeeName:   emp.Name,
			Role:           emp.Role,
			CommissionRate: rate,
			Services:       []CommissionService{},
			Period:         label,
			StartDate:      start,
			EndDate:        end,
		}

		counted := map[string]bool{}
		add := func(client, service string, price float64, date string) {
			rep.TotalRevenue += price
			rep.CutsCount++
			rep.Services = append(rep.Services, CommissionService{
				Client:     client,
				Service:    service,
				Price:      price,
				Date:       date,
				Commission: price * rate / 100,
			})
		}

		for _, cut := range cuts {
			date := cutDate(cut)
			if !inRange(date, start, end) || !belongsTo(emp, cut.Employee, cut.EmployeeID) {
				continue
			}
			counted[cut.ID] = true
			add(cut.Client, cut.Service, cut.Price, date)
		}

		for date, list := range sales {
			if !inRange(date, start, end) {
				continue
			}
			for _, s := range list {
				if s.Type != models.SaleService || !belongsTo(emp, s.Employee, s.EmployeeID) {
					continue
				}
				if e.dedupe && s.CutID != "" && counted[s.CutID] {
					continue
				}
				client := s.ClientName
				if client == "" {
					client = unknownClient
				}
				add(client, s.Description, s.Amount, date)
			}
		}

		rep.TotalCommission = rep.TotalRevenue * rate / 100
		out = append(out, rep)
	}
	return out
}

func cutDate(c models.CompletedCut) string {
	if c.Date != "" {
		return c.Date
	}
	if c.FinishedAt.IsZero() {
		return ""
	}
	return timezone.DateKey(c.FinishedAt)
}

func inRange(date, start, end string) bool {
	return date != "" && date >= start && date <= end
}

func belongsTo(emp models.Employee, name, id string) bool {
	if id != "" && id == emp.ID {
		return true
	}
	return name != "" && strings.EqualFold(name, emp.Name)
}
