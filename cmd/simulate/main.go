package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joelkehle/idea-simulation-engine/internal/app"
	"github.com/joelkehle/idea-simulation-engine/internal/config"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
	"github.com/joelkehle/idea-simulation-engine/internal/report"
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
)

func main() {
	idea := flag.String("idea", "", "Idea text to simulate")
	outputPath := flag.String("output", "", "Path to write report markdown (defaults to stdout)")
	jsonOutputPath := flag.String("json-output", "", "Optional path to write the full result JSON")
	pdfPath := flag.String("pdf", "", "Optional path to copy the rendered report document to")
	seed := flag.Int64("seed", 0, "Random seed (0 uses SIM_SEED or entropy)")
	flag.Parse()

	if *idea == "" {
		log.Fatal("missing required -idea")
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *seed != 0 {
		cfg.Engine.Seed = *seed
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	a, err := app.New(cfg, lg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := a.Engine.RunWithProgress(ctx, *idea, func(stage, message string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", stage, message)
	})
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}
	if res.ReportError != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", res.ReportError)
	}

	chart, err := report.RenderCompetitorChart(res.ReportData.Competitors)
	if err != nil {
		log.Printf("chart: %v", err)
	}
	if err := writeMarkdown(*outputPath, report.BuildMarkdown(res.ReportData, chart)); err != nil {
		log.Fatalf("write markdown: %v", err)
	}
	if *jsonOutputPath != "" {
		if err := writeResultJSON(*jsonOutputPath, res); err != nil {
			log.Fatalf("write json output: %v", err)
		}
	}
	if *pdfPath != "" {
		doc, err := a.Publisher.Open(ctx, res.ReportID)
		if err != nil {
			log.Fatalf("open report: %v", err)
		}
		if err := os.WriteFile(*pdfPath, doc.Data, 0o644); err != nil {
			log.Fatalf("write document: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%s)\n", *pdfPath, doc.ContentType)
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}

func writeResultJSON(path string, res simulation.Result) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
