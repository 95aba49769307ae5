package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbearia_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barbearia_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CutsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barbearia_cuts_finished_total",
		Help: "Appointments finished through the console.",
	})

	SalesRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbearia_sales_registered_total",
			Help: "Sales appended to the register log, by type.",
		},
		[]string{"type"},
	)

	ImportedLines = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbearia_import_lines_total",
			Help: "Historical ledger lines processed, by result.",
		},
		[]string{"result"},
	)

	DailyProfit = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barbearia_daily_profit",
		Help: "Profit accumulated today.",
	})

	DailyCuts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barbearia_daily_cuts",
		Help: "Services completed today.",
	})

	PaymentShare = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "barbearia_payment_share_percent",
			Help: "Today's share of revenue per payment method.",
		},
		[]string{"method"},
	)

	CashBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barbearia_cash_balance",
		Help: "Current cash register balance.",
	})
)
