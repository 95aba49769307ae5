package datasync

import (
	"context"
	"math"
)

var defaultPaymentMethods = []string{"dinheiro", "pix", "cartao"}

type PaymentShare struct {
	Amount     float64 `json:"amount"`
	Percentage int     `json:"percentage"`
}

type RealTimeMetrics struct {
	Date             string                  `json:"date"`
	DailyProfit      float64                 `json:"dailyProfit"`
	DailyCuts        int                     `json:"dailyCuts"`
	TodayServices    int                     `json:"todayServices"`
	PaymentBreakdown map[string]PaymentShare `json:"paymentBreakdown"`
}

// CalculateRealTimeMetrics reads today's aggregate only.
func (e *Engine) CalculateRealTimeMetrics(ctx context.Context) RealTimeMetrics {
	today := e.today()
	day := e.DailyData(ctx)[today]

	return RealTimeMetrics{
		Date:             today,
		DailyProfit:      day.Profit,
		DailyCuts:        day.Cuts,
		TodayServices:    len(day.Services),
		PaymentBreakdown: CalculatePaymentBreakdown(day.Payments),
	}
}

// CalculatePaymentBreakdown turns absolute amounts per method into rounded
// percentages of the total. A zero total yields zero percentages.
func CalculatePaymentBreakdown(payments map[string]float64) map[string]PaymentShare {
	out := make(map[string]PaymentShare, len(defaultPaymentMethods)+len(payments))
	for _, m := range defaultPaymentMethods {
		out[m] = PaymentShare{}
	}

	var total float64
	for _, v := range payments {
		total += v
	}

	for m, v := range payments {
		share := PaymentShare{Amount: v}
		if total > 0 {
			share.Percentage = int(math.Round(v / total * 100))
		}
		out[m] = share
	}
	return out
}
