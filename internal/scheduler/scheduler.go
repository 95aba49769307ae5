package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	"github.com/BruksfildServices01/barbearia-console/internal/metrics"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
)

// KeyRealtimeMetrics is announced on the bus but never persisted.
const KeyRealtimeMetrics = "realtimeMetrics"

type Publisher interface {
	Publish(key string, value json.RawMessage)
}

type Scheduler struct {
	cron   *cron.Cron
	engine *datasync.Engine
	cash   *repository.CashLedger
	bus    Publisher
	every  time.Duration
}

func New(engine *datasync.Engine, cash *repository.CashLedger, bus Publisher, every time.Duration, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		engine: engine,
		cash:   cash,
		bus:    bus,
		every:  every,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.every), s.Refresh); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	s.Refresh()
	s.cron.Start()
	log.Printf("[scheduler] metrics refresh every %s", s.every)
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Refresh recomputes today's metrics, pushes them to open views and updates
// the exported gauges.
func (s *Scheduler) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m := s.engine.CalculateRealTimeMetrics(ctx)

	metrics.DailyProfit.Set(m.DailyProfit)
	metrics.DailyCuts.Set(float64(m.DailyCuts))
	for method, share := range m.PaymentBreakdown {
		metrics.PaymentShare.WithLabelValues(method).Set(float64(share.Percentage))
	}
	if s.cash != nil {
		metrics.CashBalance.Set(s.cash.Balance(ctx).InexactFloat64())
	}

	if s.bus == nil {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		log.Printf("[scheduler] encode metrics: %v", err)
		return
	}
	s.bus.Publish(KeyRealtimeMetrics, raw)
}
