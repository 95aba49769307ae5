package importer

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/metrics"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const (
	KeyTransactions   = "transactions"
	KeyDashboardStats = "dashboardStats"

	statsHistorical = "historicoImportado"
)

var ErrNoTransactions = httperr.ErrBusinessMsg(
	"no_transactions",
	"Nenhuma transação válida encontrada nos dados fornecidos",
)

type Period struct {
	Inicio string `json:"inicio"`
	Fim    string `json:"fim"`
}

type Result struct {
	TotalTransacoes int     `json:"totalTransacoes"`
	ValorTotal      float64 `json:"valorTotal"`
	Periodo         Period  `json:"periodo"`
}

type Outcome struct {
	Success      bool                           `json:"success"`
	Result       Result                         `json:"result"`
	Report       Report                         `json:"report"`
	Transactions []models.HistoricalTransaction `json:"transactions"`
	SkippedLines []SkippedLine                  `json:"skippedLines"`
}

type Importer struct {
	store  *storage.Adapter
	engine *datasync.Engine
	parser *Parser
	clock  timezone.Clock
}

func New(store *storage.Adapter, engine *datasync.Engine, parser *Parser, clock timezone.Clock) *Importer {
	return &Importer{store: store, engine: engine, parser: parser, clock: clock}
}

// ImportHistoricalData parses raw, merges what it can into the sales log, the
// flat transactions list and the dashboard stats, then reports on everything
// carrying this batch's origin.
func (im *Importer) ImportHistoricalData(ctx context.Context, raw string) (*Outcome, error) {
	txns, skipped := im.parser.Parse(raw)
	for _, s := range skipped {
		log.Printf("[import] line %d skipped: %s (%q)", s.Line, s.Reason, s.Text)
	}
	metrics.ImportedLines.WithLabelValues("skipped").Add(float64(len(skipped)))

	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	metrics.ImportedLines.WithLabelValues("imported").Add(float64(len(txns)))

	res := im.save(ctx, txns)
	origin := Origin(im.parser.Year)
	report := BuildReport(res, im.engine.Sales(ctx), origin)

	log.Printf("[import] %d transactions imported (%s a %s)", res.TotalTransacoes, res.Periodo.Inicio, res.Periodo.Fim)

	if skipped == nil {
		skipped = []SkippedLine{}
	}
	return &Outcome{
		Success:      true,
		Result:       res,
		Report:       report,
		Transactions: txns,
		SkippedLines: skipped,
	}, nil
}

func (im *Importer) save(ctx context.Context, txns []models.HistoricalTransaction) Result {
	byDate := map[string][]models.Sale{}
	entries := make([]models.LedgerEntry, 0, len(txns))
	dates := make([]string, 0, len(txns))

	var total, commissions float64
	for _, t := range txns {
		byDate[t.Data] = append(byDate[t.Data], toSale(t))
		entries = append(entries, models.LedgerEntry{
			ID:            t.ID,
			Date:          t.Data,
			Type:          "receita",
			Category:      "Serviços",
			Description:   t.Servico + " - " + t.Cliente,
			Amount:        t.Valor,
			PaymentMethod: t.FormaPagamento,
			Employee:      t.Funcionario,
			Commission:    t.Comissao,
			Source:        models.SaleHistorical,
		})
		dates = append(dates, t.Data)
		total += t.Valor
		commissions += t.Comissao
	}

	im.engine.MergeSales(ctx, byDate)
	metrics.SalesRegistered.WithLabelValues(models.SaleHistorical).Add(float64(len(txns)))

	if existing, _, err := storage.Lookup(ctx, im.store, KeyTransactions, []models.LedgerEntry{}); err == nil {
		im.store.Put(ctx, KeyTransactions, append(existing, entries...))
	}

	if stats, _, err := storage.Lookup(ctx, im.store, KeyDashboardStats, map[string]json.RawMessage{}); err == nil {
		summary, _ := json.Marshal(models.ImportSummary{
			ValorTotal:     total,
			TotalCortes:    len(txns),
			TotalComissoes: commissions,
			LucroLiquido:   total - commissions,
			DataImportacao: im.clock(),
		})
		stats[statsHistorical] = summary
		im.store.Put(ctx, KeyDashboardStats, stats)
	}

	sort.Strings(dates)
	return Result{
		TotalTransacoes: len(txns),
		ValorTotal:      total,
		Periodo:         Period{Inicio: dates[0], Fim: dates[len(dates)-1]},
	}
}

func toSale(t models.HistoricalTransaction) models.Sale {
	return models.Sale{
		ID:            t.ID,
		Type:          models.SaleHistorical,
		Description:   t.Servico + " - " + t.Cliente,
		Amount:        t.Valor,
		PaymentMethod: t.FormaPagamento,
		ClientName:    t.Cliente,
		Employee:      t.Funcionario,
		Timestamp:     t.Timestamp,
		Service:       t.Servico,
		Commission:    t.Comissao,
		Origin:        t.Origem,
	}
}
