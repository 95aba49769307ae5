package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const unknownClient = "Cliente não informado"

// date(dd/mon) service R$amount PAYCODE client EMPLOYEE PG METHOD R$commission
var linePattern = regexp.MustCompile(
	`^(\d{1,2}/\p{L}{3})\s+(.+?)\s+R\$\s*([\d.,-]+)\s+(\S+)\s+(.*?)\s*(\S+)\s+PG\s+(\S+)\s+R\$\s*([\d,.\s-]+)$`,
)

var digits = regexp.MustCompile(`\d+`)

var months = map[string]time.Month{
	"jan": time.January, "fev": time.February, "mar": time.March, "abr": time.April,
	"mai": time.May, "jun": time.June, "jul": time.July, "ago": time.August,
	"set": time.September, "out": time.October, "nov": time.November, "dez": time.December,
}

var paymentCodes = map[string]string{
	"PIX":      "pix",
	"DEB":      "debito",
	"CRED":     "credito",
	"DINH":     "dinheiro",
	"DINHEIRO": "dinheiro",
	"PLANO":    "plano",
}

// Origin tags every record of one import batch.
func Origin(year int) string {
	return fmt.Sprintf("importacao_historico_%d", year)
}

type SkippedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Parser turns free-text ledger lines into transactions. Ledger dates carry
// no year, so it is supplied.
type Parser struct {
	Year     int
	Location *time.Location
}

func NewParser(year int, loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{Year: year, Location: loc}
}

// Parse never aborts on a bad line: it is reported in skipped and the rest
// of the batch goes on.
func (p *Parser) Parse(raw string) ([]models.HistoricalTransaction, []SkippedLine) {
	var (
		out     []models.HistoricalTransaction
		skipped []SkippedLine
	)

	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		tx, err := p.ParseLine(line)
		if err != nil {
			skipped = append(skipped, SkippedLine{Line: i + 1, Text: line, Reason: err.Error()})
			continue
		}
		out = append(out, tx)
	}
	return out, skipped
}

func (p *Parser) ParseLine(line string) (models.HistoricalTransaction, error) {
	m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return models.HistoricalTransaction{}, fmt.Errorf("linha não reconhecida")
	}

	date, err := p.parseDate(m[1])
	if err != nil {
		return models.HistoricalTransaction{}, err
	}

	return models.HistoricalTransaction{
		ID:             "hist_" + uuid.NewString(),
		Data:           timezone.DateKey(date),
		Servico:        strings.TrimSpace(m[2]),
		Valor:          ParseAmount(m[3]),
		FormaPagamento: PaymentMethod(m[4]),
		Cliente:        cleanClient(m[5]),
		Funcionario:    strings.TrimSpace(m[6]),
		Comissao:       ParseAmount(m[8]),
		Timestamp:      date,
		Tipo:           models.SaleHistorical,
		Origem:         Origin(p.Year),
	}, nil
}

func (p *Parser) parseDate(s string) (time.Time, error) {
	day, mon, _ := strings.Cut(s, "/")
	month, ok := months[strings.ToLower(mon)]
	if !ok {
		return time.Time{}, fmt.Errorf("mês desconhecido %q", mon)
	}

	var d int
	if _, err := fmt.Sscanf(day, "%d", &d); err != nil {
		return time.Time{}, fmt.Errorf("dia inválido %q", day)
	}

	t := time.Date(p.Year, month, d, 0, 0, 0, 0, p.Location)
	if t.Month() != month {
		return time.Time{}, fmt.Errorf("data inválida %q", s)
	}
	return t, nil
}

// ParseAmount reads "R$1.234,56" style values. Anything holding a minus sign
// is a placeholder and counts as zero, as does anything unreadable.
func ParseAmount(s string) float64 {
	if s == "" || strings.Contains(s, "-") {
		return 0
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.Join(strings.Fields(s), "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.Round(2).InexactFloat64()
}

func PaymentMethod(code string) string {
	if m, ok := paymentCodes[strings.ToUpper(code)]; ok {
		return m
	}
	return strings.ToLower(code)
}

func cleanClient(s string) string {
	s = strings.Join(strings.Fields(digits.ReplaceAllString(s, "")), " ")
	if s == "" {
		return unknownClient
	}
	return s
}
