package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
)

type ExpenseHandler struct {
	repo  *repository.ExpenseRepository
	audit *audit.Dispatcher
}

func NewExpenseHandler(repo *repository.ExpenseRepository, audit *audit.Dispatcher) *ExpenseHandler {
	return &ExpenseHandler{repo: repo, audit: audit}
}

// GET /expenses?category=&user=&date=&search=
func (h *ExpenseHandler) List(c *gin.Context) {
	httpresp.List(c, h.repo.List(c.Request.Context(), repository.ExpenseFilter{
		Category: c.Query("category"),
		User:     c.Query("user"),
		Date:     c.Query("date"),
		Search:   c.Query("search"),
	}))
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	e, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, e)
}

func (h *ExpenseHandler) Stats(c *gin.Context) {
	httpresp.OK(c, h.repo.Stats(c.Request.Context()))
}

func (h *ExpenseHandler) Users(c *gin.Context) {
	httpresp.List(c, h.repo.Users(c.Request.Context()))
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req models.Expense
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "expense_created", "expense", e.ID, gin.H{"amount": e.Amount, "category": e.Category})
	httpresp.Created(c, e)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	e, err := h.repo.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "expense_updated", "expense", e.ID, nil)
	httpresp.OK(c, e)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "expense_deleted", "expense", id, nil)
	httpresp.NoContent(c)
}
