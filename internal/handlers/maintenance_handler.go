package handlers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/backup"
	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
)

type MaintenanceHandler struct {
	engine *datasync.Engine
	snap   backup.Taker
	audit  *audit.Dispatcher
}

// snap may be nil when no bucket is configured.
func NewMaintenanceHandler(engine *datasync.Engine, snap backup.Taker, audit *audit.Dispatcher) *MaintenanceHandler {
	return &MaintenanceHandler{engine: engine, snap: snap, audit: audit}
}

// POST /maintenance/cleanup?days=30
func (h *MaintenanceHandler) Cleanup(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(backup.DefaultDaysToKeep)))

	rep, err := backup.CleanOldData(c.Request.Context(), h.engine, h.snap, days)
	if err != nil {
		log.Printf("[maintenance] cleanup aborted: %v", err)
		httperr.Internal(c, "backup_failed", "Falha no backup; nenhum dado foi removido.")
		return
	}

	writeAudit(h.audit, c, "data_cleanup", "sync", rep.Cutoff, rep)
	httpresp.OK(c, rep)
}

func (h *MaintenanceHandler) Backup(c *gin.Context) {
	if h.snap == nil {
		httperr.Write(c, 503, "backup_disabled", "Backup não configurado.")
		return
	}

	key, err := h.snap.Snapshot(c.Request.Context())
	if err != nil {
		log.Printf("[maintenance] backup failed: %v", err)
		httperr.Internal(c, "backup_failed", "Falha ao gerar backup.")
		return
	}

	writeAudit(h.audit, c, "backup_created", "sync", key, nil)
	httpresp.OK(c, gin.H{"key": key})
}
