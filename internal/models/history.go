package models

import "time"

// HistoricalTransaction is a ledger line recovered by the importer.
type HistoricalTransaction struct {
	ID             string    `json:"id"`
	Data           string    `json:"data"`
	Servico        string    `json:"servico"`
	Valor          float64   `json:"valor"`
	FormaPagamento string    `json:"formaPagamento"`
	Cliente        string    `json:"cliente"`
	Funcionario    string    `json:"funcionario"`
	Comissao       float64   `json:"comissao"`
	Timestamp      time.Time `json:"timestamp"`
	Tipo           string    `json:"tipo"`
	Origem         string    `json:"origem"`
}

// LedgerEntry is one row of the flat "transactions" list.
type LedgerEntry struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Employee      string  `json:"employee"`
	Commission    float64 `json:"commission"`
	Source        string  `json:"source"`
}

type ImportSummary struct {
	ValorTotal     float64   `json:"valorTotal"`
	TotalCortes    int       `json:"totalCortes"`
	TotalComissoes float64   `json:"totalComissoes"`
	LucroLiquido   float64   `json:"lucroLiquido"`
	DataImportacao time.Time `json:"dataImportacao"`
}
