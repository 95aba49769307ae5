package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
	"github.com/BruksfildServices01/barbearia-console/internal/metrics"
	"github.com/BruksfildServices01/barbearia-console/internal/middleware"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
)

type CashHandler struct {
	ledger *repository.CashLedger
	audit  *audit.Dispatcher
}

func NewCashHandler(ledger *repository.CashLedger, audit *audit.Dispatcher) *CashHandler {
	return &CashHandler{ledger: ledger, audit: audit}
}

type CashMovementRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	User        string  `json:"user"`
	Notes       string  `json:"notes"`
}

type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

func (h *CashHandler) Balance(c *gin.Context) {
	bal := h.ledger.Balance(c.Request.Context())
	metrics.CashBalance.Set(bal.InexactFloat64())
	httpresp.OK(c, BalanceResponse{Balance: bal.InexactFloat64()})
}

func (h *CashHandler) Transactions(c *gin.Context) {
	httpresp.List(c, h.ledger.Transactions(c.Request.Context()))
}

func (h *CashHandler) Deposit(c *gin.Context) {
	h.move(c, "cash_deposit", h.ledger.Deposit)
}

func (h *CashHandler) Withdraw(c *gin.Context) {
	h.move(c, "cash_withdraw", h.ledger.Withdraw)
}

type movement func(context.Context, repository.CashMovement) (models.CashTransaction, decimal.Decimal, error)

func (h *CashHandler) move(c *gin.Context, action string, apply movement) {
	var req CashMovementRequest
	if !bindJSON(c, &req) {
		return
	}

	user := req.User
	if user == "" {
		user = c.GetString(middleware.ContextEmployeeName)
	}

	txn, bal, err := apply(c.Request.Context(), repository.CashMovement{
		Amount:      req.Amount,
		Description: req.Description,
		User:        user,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	metrics.CashBalance.Set(bal.InexactFloat64())
	writeAudit(h.audit, c, action, "cash", txn.ID, gin.H{"amount": txn.Amount})

	httpresp.Created(c, gin.H{
		"transaction": txn,
		"balance":     bal.InexactFloat64(),
	})
}
