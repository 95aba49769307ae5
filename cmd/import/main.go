package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/BruksfildServices01/barbearia-console/internal/app"
	"github.com/BruksfildServices01/barbearia-console/internal/config"
	"github.com/BruksfildServices01/barbearia-console/internal/importer"
)

func main() {
	cfg := config.Load()

	file := flag.String("file", "", "ledger text file to import")
	year := flag.Int("year", cfg.ImportYear, "year the ledger dates belong to")
	flag.Parse()

	if *file == "" {
		log.Fatalf("usage: import -file ledger.txt [-year 2024]")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	im := importer.New(a.Store, a.Engine, importer.NewParser(*year, a.Location), a.Clock)

	out, err := im.ImportHistoricalData(ctx, string(raw))
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.Printf("imported %d transactions, %d lines skipped, total %s",
		out.Result.TotalTransacoes, len(out.SkippedLines), out.Report.Resumo.ValorTotal)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out.Report); err != nil {
		log.Printf("encode report: %v", err)
	}
}
