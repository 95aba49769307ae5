package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const KeyExpenses = "expenses"

type ExpenseFilter struct {
	Category string
	User     string
	Date     string
	Search   string
}

type ExpenseBucket struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type ExpenseStats struct {
	TotalExpenses  int                      `json:"totalExpenses"`
	TotalAmount    float64                  `json:"totalAmount"`
	TodayExpenses  int                      `json:"todayExpenses"`
	MonthlyAverage float64                  `json:"monthlyAverage"`
	ByCategory     map[string]ExpenseBucket `json:"byCategory"`
	ByUser         map[string]ExpenseBucket `json:"byUser"`
	ByMonth        map[string]ExpenseBucket `json:"byMonth"`
}

type ExpenseRepository struct {
	col   *Collection[models.Expense]
	clock timezone.Clock
}

func NewExpenseRepository(store *storage.Adapter, clock timezone.Clock) *ExpenseRepository {
	return &ExpenseRepository{
		col: NewCollection(store, KeyExpenses, seedExpenses,
			func(e *models.Expense) string { return e.ID },
			func(e *models.Expense, id string) { e.ID = id },
		),
		clock: clock,
	}
}

func (r *ExpenseRepository) List(ctx context.Context, f ExpenseFilter) []models.Expense {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	return r.col.Filter(ctx, func(e models.Expense) bool {
		if f.Category != "" && e.Category != f.Category {
			return false
		}
		if f.User != "" && e.User != f.User {
			return false
		}
		if f.Date != "" && e.Date != f.Date {
			return false
		}
		if term != "" {
			return strings.Contains(strings.ToLower(e.Description), term) ||
				strings.Contains(strings.ToLower(e.User), term) ||
				strings.Contains(strings.ToLower(e.Notes), term) ||
				strings.Contains(strconv.FormatFloat(e.Amount, 'f', -1, 64), term)
		}
		return true
	})
}

func (r *ExpenseRepository) Get(ctx context.Context, id string) (models.Expense, error) {
	e, ok := r.col.Find(ctx, id)
	if !ok {
		return e, httperr.ErrBusinessMsg("not_found", "Despesa não encontrada.")
	}
	return e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e models.Expense) (models.Expense, error) {
	e.Description = strings.TrimSpace(e.Description)
	e.User = strings.TrimSpace(e.User)
	e.Notes = strings.TrimSpace(e.Notes)
	if err := validateExpense(e); err != nil {
		return e, err
	}
	e.ID = ""
	e.CreatedAt = r.clock()
	return r.col.Add(ctx, e)
}

func (r *ExpenseRepository) Update(ctx context.Context, id string, patch map[string]any) (models.Expense, error) {
	out, err := r.col.Mutate(ctx, id, func(e *models.Expense) error {
		merged := *e
		if err := mergePatch(&merged, patch); err != nil {
			return httperr.ErrBusinessMsg("invalid_request", "Dados inválidos.")
		}
		if err := validateExpense(merged); err != nil {
			return err
		}
		*e = merged
		return nil
	})
	return out, notFound(err, "Despesa não encontrada.")
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.col.Remove(ctx, id), "Despesa não encontrada.")
}

// Users lists the distinct people that registered expenses, in first-seen
// order.
func (r *ExpenseRepository) Users(ctx context.Context) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range r.col.LoadAll(ctx) {
		if e.User != "" && !seen[e.User] {
			seen[e.User] = true
			out = append(out, e.User)
		}
	}
	return out
}

func (r *ExpenseRepository) Stats(ctx context.Context) ExpenseStats {
	now := r.clock()
	today := timezone.DateKey(now)
	since := timezone.DateKey(now.AddDate(0, 0, -30))

	s := ExpenseStats{
		ByCategory: map[string]ExpenseBucket{},
		ByUser:     map[string]ExpenseBucket{},
		ByMonth:    map[string]ExpenseBucket{},
	}

	var recentTotal float64
	recent := 0
	for _, e := range r.col.LoadAll(ctx) {
		s.TotalExpenses++
		s.TotalAmount += e.Amount
		if e.Date == today {
			s.TodayExpenses++
		}
		if e.Date >= since {
			recent++
			recentTotal += e.Amount
		}
		addBucket(s.ByCategory, e.Category, e.Amount)
		addBucket(s.ByUser, e.User, e.Amount)
		if len(e.Date) >= 7 {
			addBucket(s.ByMonth, e.Date[:7], e.Amount)
		}
	}
	if recent > 0 {
		s.MonthlyAverage = recentTotal / 30
	}
	return s
}

func addBucket(m map[string]ExpenseBucket, key string, amount float64) {
	b := m[key]
	b.Count++
	b.Total += amount
	m[key] = b
}

func validateExpense(e models.Expense) error {
	switch {
	case strings.TrimSpace(e.Description) == "":
		return required("Descrição é obrigatória!")
	case e.Amount <= 0:
		return httperr.ErrBusinessMsg("invalid_amount", "Valor deve ser maior que zero!")
	case e.Category == "":
		return required("Categoria é obrigatória!")
	case strings.TrimSpace(e.User) == "":
		return required("Usuário responsável é obrigatório!")
	case e.Date == "":
		return required("Data é obrigatória!")
	}
	return nil
}

func seedExpenses() []models.Expense {
	at := func(y int, m time.Month, d, hh, mm int) time.Time {
		return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	}
	return []models.Expense{
		{ID: "1", Description: "Café e açúcar", Amount: 25.50, Category: "alimentacao", User: "Carlos Silva",
			Date: "2024-01-15", Notes: "Café para os clientes e açúcar para o cafezinho", CreatedAt: at(2024, 1, 15, 10, 30)},
		{ID: "2", Description: "Produtos de limpeza", Amount: 45.80, Category: "limpeza", User: "Ana Santos",
			Date: "2024-01-14", Notes: "Desinfetante, papel toalha e sabão", CreatedAt: at(2024, 1, 14, 14, 20)},
		{ID: "3", Description: "Manutenção da máquina de cortar cabelo", Amount: 120.00, Category: "manutencao", User: "Pedro Oliveira",
			Date: "2024-01-13", Notes: "Troca de lâminas e lubrificação", CreatedAt: at(2024, 1, 13, 16, 45)},
		{ID: "4", Description: "Água e biscoitos", Amount: 18.90, Category: "alimentacao", User: "Carlos Silva",
			Date: "2024-01-12", CreatedAt: at(2024, 1, 12, 9, 15)},
		{ID: "5", Description: "Toalhas novas", Amount: 85.00, Category: "equipamentos", User: "Ana Santos",
			Date: "2024-01-10", Notes: "Toalhas de qualidade para os clientes", CreatedAt: at(2024, 1, 10, 11, 30)},
	}
}
