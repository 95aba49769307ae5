package handlers

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/importer"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const maxImportBytes = 5 << 20

type ImportHandler struct {
	store       *storage.Adapter
	engine      *datasync.Engine
	defaultYear int
	loc         *time.Location
	clock       timezone.Clock
	audit       *audit.Dispatcher
}

func NewImportHandler(
	store *storage.Adapter,
	engine *datasync.Engine,
	defaultYear int,
	loc *time.Location,
	clock timezone.Clock,
	audit *audit.Dispatcher,
) *ImportHandler {
	return &ImportHandler{
		store:       store,
		engine:      engine,
		defaultYear: defaultYear,
		loc:         loc,
		clock:       clock,
		audit:       audit,
	}
}

type ImportRequest struct {
	Data string `json:"data"`
	Year int    `json:"year"`
}

// Import accepts either {"data": "...", "year": 2024} or the raw ledger as
// text/plain with an optional ?year=.
func (h *ImportHandler) Import(c *gin.Context) {
	req, ok := h.readRequest(c)
	if !ok {
		return
	}

	im := importer.New(h.store, h.engine, importer.NewParser(req.Year, h.loc), h.clock)
	out, err := im.ImportHistoricalData(c.Request.Context(), req.Data)
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			c.JSON(400, gin.H{"success": false, "error": be.Message})
			return
		}
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "history_imported", "sales", importer.Origin(req.Year), gin.H{
		"transactions": out.Result.TotalTransacoes,
		"skipped":      len(out.SkippedLines),
	})
	c.JSON(200, out)
}

func (h *ImportHandler) readRequest(c *gin.Context) (ImportRequest, bool) {
	req := ImportRequest{Year: h.defaultYear}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"success": false, "error": "Dados inválidos."})
			return req, false
		}
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
		if err != nil {
			c.JSON(400, gin.H{"success": false, "error": "Dados inválidos."})
			return req, false
		}
		req.Data = string(body)
		if y, err := strconv.Atoi(c.Query("year")); err == nil {
			req.Year = y
		}
	}

	if req.Year <= 0 {
		req.Year = h.defaultYear
	}
	if strings.TrimSpace(req.Data) == "" {
		c.JSON(400, gin.H{"success": false, "error": "Nenhum dado fornecido para importação."})
		return req, false
	}
	return req, true
}
