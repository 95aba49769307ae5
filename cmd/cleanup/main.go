package main

import (
	"context"
	"flag"
	"log"

	"github.com/BruksfildServices01/barbearia-console/internal/app"
	"github.com/BruksfildServices01/barbearia-console/internal/backup"
	"github.com/BruksfildServices01/barbearia-console/internal/config"
)

func main() {
	cfg := config.Load()

	days := flag.Int("days", backup.DefaultDaysToKeep, "days of daily data and sales to keep")
	withBackup := flag.Bool("backup", cfg.Backup.Enabled(), "upload a snapshot before removing anything")
	flag.Parse()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	var snap backup.Taker
	if *withBackup {
		if a.Snapshots == nil {
			log.Fatalf("-backup requires BACKUP_BUCKET")
		}
		snap = a.Snapshots
	}

	rep, err := backup.CleanOldData(context.Background(), a.Engine, snap, *days)
	if err != nil {
		log.Fatalf("cleanup aborted: %v", err)
	}

	if rep.Backup != "" {
		log.Printf("snapshot stored at %s", rep.Backup)
	}
	log.Printf("cutoff %s: removed %d daily buckets and %d sale days", rep.Cutoff, rep.RemovedDays, rep.RemovedSaleDay)
}
