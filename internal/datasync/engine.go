package datasync

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const (
	KeyDailyData        = "dailyData"
	KeySales            = "sales"
	KeyCompletedCuts    = "completedCuts"
	KeyRecentActivities = "recentActivities"
	KeyEmployees        = "employees"

	MaxCompletedCuts    = 100
	MaxRecentActivities = 50
)

type Options struct {
	Clock timezone.Clock

	// DedupeCrossPostedSales stops a service sale that was cross-posted from
	// a completed cut from being counted a second time in commissions.
	DedupeCrossPostedSales bool
}

// Engine owns the derived keys (daily aggregates, sales, completed cuts and
// the activity feed) and is the only place that joins across entities.
// Each call is a sequence of independent writes; a failure midway leaves the
// earlier writes in place.
type Engine struct {
	mu     sync.Mutex
	store  *storage.Adapter
	clock  timezone.Clock
	dedupe bool
}

func New(store *storage.Adapter, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = timezone.SystemClock(timezone.Location(timezone.DefaultTimezone))
	}
	return &Engine{
		store:  store,
		clock:  clock,
		dedupe: opts.DedupeCrossPostedSales,
	}
}

func (e *Engine) Now() time.Time {
	return e.clock()
}

func (e *Engine) today() string {
	return timezone.DateKey(e.clock())
}

// ===============================
// Generic access
// ===============================

// UpdateData persists value under key and announces it on the change bus.
func (e *Engine) UpdateData(ctx context.Context, key string, value any) bool {
	return e.store.Put(ctx, key, value)
}

// GetData returns the raw JSON under key, or def when missing.
func (e *Engine) GetData(ctx context.Context, key string, def json.RawMessage) json.RawMessage {
	if raw := e.store.Raw(ctx, key); raw != nil && json.Valid(raw) {
		return raw
	}
	return def
}

func (e *Engine) DailyData(ctx context.Context) map[string]models.DailyAggregate {
	return storage.Get(ctx, e.store, KeyDailyData, map[string]models.DailyAggregate{})
}

func (e *Engine) Sales(ctx context.Context) map[string][]models.Sale {
	return storage.Get(ctx, e.store, KeySales, map[string][]models.Sale{})
}

func (e *Engine) CompletedCuts(ctx context.Context) []models.CompletedCut {
	return storage.Get(ctx, e.store, KeyCompletedCuts, []models.CompletedCut{})
}

// load reads key for a read-modify-write. On a backend error the caller must
// not write back, or the stored value would be replaced by def.
func load[T any](ctx context.Context, e *Engine, key string, def T) (T, bool) {
	v, _, err := storage.Lookup(ctx, e.store, key, def)
	if err != nil {
		log.Printf("[sync] %s unreadable, skipping write", key)
		return def, false
	}
	return v, true
}

// ===============================
// Daily aggregates
// ===============================

// AddDailyProfit adds one completed service to today's bucket. It is not
// idempotent: callers invoke it once per transaction.
func (e *Engine) AddDailyProfit(ctx context.Context, amount float64, paymentMethod string, details models.ServiceRecord) models.DailyAggregate {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	daily, readable := load(ctx, e, KeyDailyData, map[string]models.DailyAggregate{})

	day, ok := daily[today]
	if !ok {
		day = models.DailyAggregate{}
	}
	if day.Payments == nil {
		day.Payments = map[string]float64{}
	}

	details.Amount = amount
	details.PaymentMethod = paymentMethod
	if details.Timestamp.IsZero() {
		details.Timestamp = e.clock()
	}

	day.Profit += amount
	day.Cuts++
	day.Services = append(day.Services, details)
	day.Payments[paymentMethod] += amount

	daily[today] = day
	if readable {
		e.UpdateData(ctx, KeyDailyData, daily)
	}
	return day
}

// ===============================
// Completed cuts
// ===============================

type CutInput struct {
	Client        string
	Service       string
	Price         float64
	PaymentMethod string
	Employee      string
	EmployeeID    string
	Time          string
	Notes         string
}

func (e *Engine) AddCompletedCut(ctx context.Context, in CutInput) models.CompletedCut {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addCut(ctx, in)
}

func (e *Engine) addCut(ctx context.Context, in CutInput) models.CompletedCut {
	now := e.clock()
	if in.Time == "" {
		in.Time = now.Format(timezone.TimeLayout)
	}

	cut := models.CompletedCut{
		ID:            uuid.NewString(),
		Client:        in.Client,
		Service:       in.Service,
		Price:         in.Price,
		PaymentMethod: in.PaymentMethod,
		Employee:      in.Employee,
		EmployeeID:    in.EmployeeID,
		Time:          in.Time,
		Date:          timezone.DateKey(now),
		FinishedAt:    now,
		Notes:         in.Notes,
	}

	if cuts, ok := load(ctx, e, KeyCompletedCuts, []models.CompletedCut{}); ok {
		e.UpdateData(ctx, KeyCompletedCuts, prepend(cuts, cut, MaxCompletedCuts))
	}
	return cut
}

// RegisterCutWithEmployee logs the cut and, when it has a price and a client,
// also posts it to the cash register log as a service sale carrying the
// cut's id.
func (e *Engine) RegisterCutWithEmployee(ctx context.Context, in CutInput) (models.CompletedCut, *models.Sale) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cut := e.addCut(ctx, in)
	if in.Price == 0 || in.Client == "" {
		return cut, nil
	}

	service := in.Service
	if service == "" {
		service = "Serviço"
	}
	method := in.PaymentMethod
	if method == "" {
		method = "dinheiro"
	}

	sale := e.registerSale(ctx, models.Sale{
		Type:          models.SaleService,
		Description:   service + " - " + in.Client,
		Amount:        in.Price,
		PaymentMethod: method,
		ClientName:    in.Client,
		Employee:      in.Employee,
		EmployeeID:    in.EmployeeID,
		Notes:         in.Notes,
		CutID:         cut.ID,
		Service:       in.Service,
	})
	return cut, &sale
}

// ===============================
// Sales
// ===============================

// RegisterSale appends to today's sales bucket.
func (e *Engine) RegisterSale(ctx context.Context, s models.Sale) models.Sale {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registerSale(ctx, s)
}

func (e *Engine) registerSale(ctx context.Context, s models.Sale) models.Sale {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = e.clock()
	}

	today := e.today()
	if sales, ok := load(ctx, e, KeySales, map[string][]models.Sale{}); ok {
		sales[today] = append(sales[today], s)
		e.UpdateData(ctx, KeySales, sales)
	}
	return s
}

// MergeSales appends sales into their date buckets, keeping what is there.
func (e *Engine) MergeSales(ctx context.Context, byDate map[string][]models.Sale) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	sales, ok := load(ctx, e, KeySales, map[string][]models.Sale{})
	if !ok {
		return false
	}
	for date, list := range byDate {
		sales[date] = append(sales[date], list...)
	}
	return e.UpdateData(ctx, KeySales, sales)
}

// ===============================
// Maintenance
// ===============================

type CleanupResult struct {
	Cutoff         string `json:"cutoff"`
	RemovedDays    int    `json:"removedDays"`
	RemovedSaleDay int    `json:"removedSaleDays"`
}

// CleanOldData drops dailyData and sales buckets dated strictly before
// today minus daysToKeep. ISO dates compare correctly as strings.
func (e *Engine) CleanOldData(ctx context.Context, daysToKeep int) CleanupResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := timezone.DateKey(e.clock().AddDate(0, 0, -daysToKeep))
	res := CleanupResult{Cutoff: cutoff}

	if daily, ok := load(ctx, e, KeyDailyData, map[string]models.DailyAggregate{}); ok {
		for date := range daily {
			if date < cutoff {
				delete(daily, date)
				res.RemovedDays++
			}
		}
		e.UpdateData(ctx, KeyDailyData, daily)
	}

	if sales, ok := load(ctx, e, KeySales, map[string][]models.Sale{}); ok {
		for date := range sales {
			if date < cutoff {
				delete(sales, date)
				res.RemovedSaleDay++
			}
		}
		e.UpdateData(ctx, KeySales, sales)
	}

	log.Printf("[sync] removed data older than %s (%d days, %d sale days)", cutoff, res.RemovedDays, res.RemovedSaleDay)
	return res
}

func prepend[T any](list []T, item T, max int) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	out = append(out, list...)
	if len(out) > max {
		out = out[:max]
	}
	return out
}
