package importer

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

const topServices = 10

type Report struct {
	Resumo   ReportSummary `json:"resumo"`
	Detalhes ReportDetails `json:"detalhes"`
}

type ReportSummary struct {
	TotalTransacoes int    `json:"totalTransacoes"`
	ValorTotal      string `json:"valorTotal"`
	Periodo         string `json:"periodo"`
}

type ReportDetails struct {
	Funcionarios         map[string]EmployeeStats `json:"funcionarios"`
	FormasPagamento      map[string]PaymentStats  `json:"formasPagamento"`
	ServicosMaisVendidos []ServiceStats           `json:"servicosMaisVendidos"`
}

type EmployeeStats struct {
	Vendas    int     `json:"vendas"`
	Receita   float64 `json:"receita"`
	Comissoes float64 `json:"comissoes"`
}

type PaymentStats struct {
	Quantidade int     `json:"quantidade"`
	Valor      float64 `json:"valor"`
}

type ServiceStats struct {
	Servico    string  `json:"servico"`
	Quantidade int     `json:"quantidade"`
	Receita    float64 `json:"receita"`
}

// BuildReport aggregates every sale tagged with origin, including those from
// earlier batches of the same origin.
func BuildReport(res Result, sales map[string][]models.Sale, origin string) Report {
	employees := map[string]EmployeeStats{}
	payments := map[string]PaymentStats{}
	services := map[string]*ServiceStats{}

	for _, day := range sales {
		for _, s := range day {
			if s.Origin != origin {
				continue
			}

			e := employees[s.Employee]
			e.Vendas++
			e.Receita += s.Amount
			e.Comissoes += s.Commission
			employees[s.Employee] = e

			p := payments[s.PaymentMethod]
			p.Quantidade++
			p.Valor += s.Amount
			payments[s.PaymentMethod] = p

			sv, ok := services[s.Service]
			if !ok {
				sv = &ServiceStats{Servico: s.Service}
				services[s.Service] = sv
			}
			sv.Quantidade++
			sv.Receita += s.Amount
		}
	}

	ranked := make([]ServiceStats, 0, len(services))
	for _, sv := range services {
		ranked = append(ranked, *sv)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantidade != ranked[j].Quantidade {
			return ranked[i].Quantidade > ranked[j].Quantidade
		}
		return ranked[i].Servico < ranked[j].Servico
	})
	if len(ranked) > topServices {
		ranked = ranked[:topServices]
	}

	return Report{
		Resumo: ReportSummary{
			TotalTransacoes: res.TotalTransacoes,
			ValorTotal:      FormatBRL(res.ValorTotal),
			Periodo:         res.Periodo.Inicio + " a " + res.Periodo.Fim,
		},
		Detalhes: ReportDetails{
			Funcionarios:         employees,
			FormasPagamento:      payments,
			ServicosMaisVendidos: ranked,
		},
	}
}

// FormatBRL renders v as "R$ 1.234,56".
func FormatBRL(v float64) string {
	fixed := decimal.NewFromFloat(v).Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
