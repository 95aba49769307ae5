package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/auth"
	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
	"github.com/BruksfildServices01/barbearia-console/internal/importer"
	"github.com/BruksfildServices01/barbearia-console/internal/middleware"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

// Keys written by a repository or the engine, mapped to the role needed to
// read them through the generic data endpoint. They are never writable
// there. An empty role means the key is only served by its own route.
var ownedKeys = map[string]string{
	repository.KeyAppointments:     repository.RoleAssistant,
	repository.KeyClients:          repository.RoleAssistant,
	repository.KeyServices:         repository.RoleAssistant,
	repository.KeyProducts:         repository.RoleAssistant,
	datasync.KeyCompletedCuts:      repository.RoleAssistant,
	datasync.KeyRecentActivities:   repository.RoleAssistant,
	repository.KeyExpenses:         repository.RoleBarber,
	repository.KeyCashBalance:      repository.RoleBarber,
	repository.KeyCashTransactions: repository.RoleBarber,
	datasync.KeyDailyData:          repository.RoleManager,
	datasync.KeySales:              repository.RoleManager,
	importer.KeyTransactions:       repository.RoleManager,
	importer.KeyDashboardStats:     repository.RoleManager,
	repository.KeyEmployees:        "",
	auth.KeyCurrentUser:            "",
	auth.KeyRememberedUser:         "",
}

// canRead applies the ownedKeys gate. Keys nobody owns are open to every
// signed-in role.
func canRead(role, key string) bool {
	need, owned := ownedKeys[key]
	if !owned {
		return true
	}
	return need != "" && auth.HasPermission(role, need)
}

type SyncHandler struct {
	engine *datasync.Engine
}

func NewSyncHandler(engine *datasync.Engine) *SyncHandler {
	return &SyncHandler{engine: engine}
}

// ======================================================
// DATA
// ======================================================

func (h *SyncHandler) GetData(c *gin.Context) {
	key := c.Param("key")
	if !canRead(c.GetString(middleware.ContextUserRole), key) {
		httperr.Forbidden(c, "forbidden", "Acesso negado a esta chave.")
		return
	}

	raw := h.engine.GetData(c.Request.Context(), key, json.RawMessage("null"))
	c.JSON(200, gin.H{"key": key, "value": raw})
}

func (h *SyncHandler) PutData(c *gin.Context) {
	key := c.Param("key")
	if _, owned := ownedKeys[key]; owned {
		httperr.Forbidden(c, "forbidden", "Esta chave é gerenciada pelo sistema.")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if !h.engine.UpdateData(c.Request.Context(), key, json.RawMessage(body)) {
		httperr.Internal(c, "storage_error", "Erro ao salvar dados.")
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// DERIVED VIEWS
// ======================================================

func (h *SyncHandler) Activities(c *gin.Context) {
	httpresp.List(c, h.engine.RecentActivities(c.Request.Context()))
}

func (h *SyncHandler) CompletedCuts(c *gin.Context) {
	httpresp.List(c, h.engine.CompletedCuts(c.Request.Context()))
}

func (h *SyncHandler) Metrics(c *gin.Context) {
	httpresp.OK(c, h.engine.CalculateRealTimeMetrics(c.Request.Context()))
}

func (h *SyncHandler) Commissions(c *gin.Context) {
	list, ok := h.commissions(c)
	if !ok {
		return
	}
	httpresp.List(c, list)
}

// ExportCommissions writes one CSV row per commissioned service plus a
// total row per employee.
func (h *SyncHandler) ExportCommissions(c *gin.Context) {
	list, ok := h.commissions(c)
	if !ok {
		return
	}

	name := "comissoes.csv"
	if len(list) > 0 {
		name = fmt.Sprintf("comissoes_%s_%s.csv", list[0].StartDate, list[0].EndDate)
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(name))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	header := []string{
		"funcionario",
		"cargo",
		"data",
		"cliente",
		"servico",
		"valor",
		"taxa",
		"comissao",
	}
	if err := w.Write(header); err != nil {
		return
	}

	money := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	for _, ec := range list {
		rate := strconv.FormatFloat(ec.CommissionRate, 'f', -1, 64)
		for _, s := range ec.Services {
			w.Write([]string{
				ec.EmployeeName,
				ec.Role,
				s.Date,
				s.Client,
				s.Service,
				money(s.Price),
				rate,
				money(s.Commission),
			})
		}
		w.Write([]string{
			ec.EmployeeName,
			ec.Role,
			"",
			"TOTAL",
			strconv.Itoa(ec.CutsCount),
			money(ec.TotalRevenue),
			rate,
			money(ec.TotalCommission),
		})
	}
}

// commissions reads ?start=&end= (both dates) or ?period=today|week|month.
func (h *SyncHandler) commissions(c *gin.Context) ([]datasync.EmployeeCommission, bool) {
	ctx := c.Request.Context()
	start, end := c.Query("start"), c.Query("end")

	if start == "" && end == "" {
		return h.engine.CalculateEmployeeCommissions(ctx, c.DefaultQuery("period", datasync.PeriodMonth)), true
	}

	loc := h.engine.Now().Location()
	from, err1 := timezone.ParseDate(start, loc)
	to, err2 := timezone.ParseDate(end, loc)
	if err1 != nil || err2 != nil || to.Before(from) {
		httperr.BadRequest(c, "invalid_date", "Período inválido.")
		return nil, false
	}
	return h.engine.CommissionsForRange(ctx, start, end, "custom"), true
}
