package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	sink audit.Sink
}

func NewAuditLogsHandler(sink audit.Sink) *AuditLogsHandler {
	return &AuditLogsHandler{sink: sink}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, err := h.sink.Recent(limit)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	filtered := make([]models.AuditLog, 0, len(logs))
	for _, l := range logs {
		if action != "" && l.Action != action {
			continue
		}
		if entity != "" && l.Entity != entity {
			continue
		}
		filtered = append(filtered, l)
	}

	c.JSON(200, gin.H{
		"limit": limit,
		"total": len(filtered),
		"logs":  filtered,
	})
}
