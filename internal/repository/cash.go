package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const (
	KeyCashBalance      = "cashBalance"
	KeyCashTransactions = "cashTransactions"
)

var initialCashBalance = decimal.NewFromInt(500)

type CashMovement struct {
	Amount      float64
	Description string
	User        string
	Notes       string
}

// CashLedger owns the drawer balance and its movement log. The two keys are
// written one after the other; the log is written first.
type CashLedger struct {
	mu    sync.Mutex
	store *storage.Adapter
	txns  *Collection[models.CashTransaction]
	clock timezone.Clock
}

func NewCashLedger(store *storage.Adapter, clock timezone.Clock) *CashLedger {
	l := &CashLedger{store: store, clock: clock}
	l.txns = NewCollection(store, KeyCashTransactions, l.seed,
		func(t *models.CashTransaction) string { return t.ID },
		func(t *models.CashTransaction, id string) { t.ID = id },
	)
	return l
}

func (l *CashLedger) seed() []models.CashTransaction {
	now := l.clock()
	return []models.CashTransaction{{
		ID:          "1",
		Type:        models.CashAdd,
		Amount:      initialCashBalance.InexactFloat64(),
		Description: "Saldo inicial",
		User:        "Sistema",
		Notes:       "Abertura do caixa",
		Date:        timezone.DateKey(now),
		CreatedAt:   now,
	}}
}

func (l *CashLedger) Balance(ctx context.Context) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(ctx)
}

func (l *CashLedger) balance(ctx context.Context) decimal.Decimal {
	return storage.Get(ctx, l.store, KeyCashBalance, initialCashBalance)
}

func (l *CashLedger) Transactions(ctx context.Context) []models.CashTransaction {
	return l.txns.LoadAll(ctx)
}

func (l *CashLedger) Deposit(ctx context.Context, m CashMovement) (models.CashTransaction, decimal.Decimal, error) {
	return l.apply(ctx, models.CashAdd, m)
}

// Withdraw refuses to take more than the drawer holds.
func (l *CashLedger) Withdraw(ctx context.Context, m CashMovement) (models.CashTransaction, decimal.Decimal, error) {
	return l.apply(ctx, models.CashRemove, m)
}

func (l *CashLedger) apply(ctx context.Context, kind string, m CashMovement) (models.CashTransaction, decimal.Decimal, error) {
	m.Description = strings.TrimSpace(m.Description)
	m.User = strings.TrimSpace(m.User)
	m.Notes = strings.TrimSpace(m.Notes)

	amount := decimal.NewFromFloat(m.Amount).Round(2)
	switch {
	case !amount.IsPositive():
		return models.CashTransaction{}, decimal.Zero, httperr.ErrBusinessMsg("invalid_amount", "Valor deve ser maior que zero!")
	case m.Description == "":
		return models.CashTransaction{}, decimal.Zero, required("Descrição é obrigatória!")
	case m.User == "":
		return models.CashTransaction{}, decimal.Zero, required("Usuário responsável é obrigatório!")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// make sure the opening entry exists before the first movement
	l.txns.LoadAll(ctx)

	current, _, err := storage.Lookup(ctx, l.store, KeyCashBalance, initialCashBalance)
	if err != nil {
		return models.CashTransaction{}, decimal.Zero, ErrUnavailable
	}
	next := current.Add(amount)
	if kind == models.CashRemove {
		if amount.GreaterThan(current) {
			return models.CashTransaction{}, current, httperr.ErrBusinessMsg("insufficient_balance", "Saldo insuficiente no caixa!")
		}
		next = current.Sub(amount)
	}

	now := l.clock()
	txn, err := l.txns.Add(ctx, models.CashTransaction{
		Type:        kind,
		Amount:      amount.InexactFloat64(),
		Description: m.Description,
		User:        m.User,
		Notes:       m.Notes,
		Date:        timezone.DateKey(now),
		CreatedAt:   now,
	})
	if err != nil {
		return models.CashTransaction{}, current, err
	}
	l.store.Put(ctx, KeyCashBalance, next)
	return txn, next, nil
}

// Recompute derives the balance from the log alone.
func (l *CashLedger) Recompute(ctx context.Context) decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.txns.LoadAll(ctx) {
		amt := decimal.NewFromFloat(t.Amount)
		switch t.Type {
		case models.CashAdd:
			total = total.Add(amt)
		case models.CashRemove:
			total = total.Sub(amt)
		}
	}
	return total
}
