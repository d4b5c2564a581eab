package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-extractor/internal/config"
	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/export"
	"github.com/dvloznov/statement-extractor/internal/extract"
	"github.com/dvloznov/statement-extractor/internal/gcsio"
	"github.com/dvloznov/statement-extractor/internal/logger"
	"github.com/dvloznov/statement-extractor/internal/pdftext"
	"github.com/dvloznov/statement-extractor/internal/processor"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "extract":
		runExtract(log)
	case "upload":
		runUpload(log)
	case "detect":
		runDetect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statement Extractor CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  extract   Extract transactions from statements (files, directories or gs:// URIs)")
	fmt.Println("  upload    Upload a statement file to GCS")
	fmt.Println("  detect    Show which engine would handle a document")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runExtract(log zerolog.Logger) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to config file (YAML)")
	from := fs.String("from", "", "Keep transactions on or after this ISO date")
	to := fs.String("to", "", "Keep transactions on or before this ISO date")
	csvOut := fs.String("csv", "", "Write results to this CSV file")
	jsonOut := fs.String("json", "", "Write results to this JSON file")
	yamlOut := fs.String("yaml", "", "Write results to this YAML file")
	htmlOut := fs.String("html", "", "Write results to this HTML file")
	toBQ := fs.Bool("bigquery", false, "Stream results into the configured BigQuery table")
	toNotion := fs.Bool("notion", false, "Create pages in the configured Notion database")
	quiet := fs.Bool("quiet", false, "Suppress the console listing")
	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		log.Fatal().Msg("Error: at least one statement path is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	p := &processor.Processor{
		Detector: &extract.Detector{
			Opts:          cfg.ExtractOptions(),
			Text:          pdftext.Provider(),
			ModelFallback: cfg.ModelFallback,
			ModelName:     cfg.ModelName,
		},
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		From:      *from,
		To:        *to,
	}

	if *csvOut != "" {
		p.Exporters = append(p.Exporters, &export.CSVExporter{Path: *csvOut})
	}
	if *jsonOut != "" {
		p.Exporters = append(p.Exporters, &export.JSONExporter{Path: *jsonOut})
	}
	if *yamlOut != "" {
		p.Exporters = append(p.Exporters, &export.YAMLExporter{Path: *yamlOut})
	}
	if *htmlOut != "" {
		p.Exporters = append(p.Exporters, &export.HTMLExporter{Path: *htmlOut, From: *from, To: *to})
	}
	if *toBQ {
		p.Exporters = append(p.Exporters, &export.BigQueryExporter{
			Project: cfg.GCPProject,
			Dataset: cfg.BQDataset,
			Table:   cfg.BQTable,
		})
	}
	if *toNotion {
		p.Exporters = append(p.Exporters, export.NewNotionExporter(cfg.NotionToken, cfg.NotionDatabase))
	}

	txs, err := p.Run(ctx, fs.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}

	if !*quiet {
		printTransactions(txs)
	}
	fmt.Printf("Extracted %d transactions.\n", len(txs))
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to config file (YAML)")
	bucket := fs.String("bucket", "", "GCS bucket name (defaults to the configured bucket)")
	object := fs.String("object", "", "GCS object name (defaults to filename)")
	file := fs.String("file", "", "Path to local statement file")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *bucket == "" {
		*bucket = cfg.GCSBucket
	}
	if *bucket == "" || *file == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}
	if *object == "" {
		*object = filepath.Base(*file)
	}

	ctx := logger.WithContext(context.Background(), log)

	log.Info().
		Str("bucket", *bucket).
		Str("object", *object).
		Str("file", *file).
		Msg("Uploading statement to GCS")

	if err := gcsio.Upload(ctx, *bucket, *object, *file); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *file, *bucket, *object)
}

func runDetect(log zerolog.Logger) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to config file (YAML)")
	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		log.Fatal().Msg("Error: a statement path is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := logger.WithContext(context.Background(), log)

	detector := &extract.Detector{
		Opts:          cfg.ExtractOptions(),
		Text:          pdftext.Provider(),
		ModelFallback: cfg.ModelFallback,
		ModelName:     cfg.ModelName,
	}

	for _, path := range fs.Args() {
		data, err := processor.DefaultFetch(ctx, path)
		if err != nil {
			log.Fatal().Err(err).Str("source", path).Msg("Failed to read document")
		}
		engine, ok := detector.Detect(ctx, extract.Document{Source: path, Data: data})
		if !ok {
			fmt.Printf("%s: no engine\n", path)
			continue
		}
		fmt.Printf("%s: %s\n", path, engine.Bank())
	}
}

func printTransactions(txs []domain.Transaction) {
	fmt.Printf("\n=== Transactions (%d) ===\n", len(txs))
	for i, tx := range txs {
		fmt.Printf("\n%d. %s\n", i+1, tx.Description)
		fmt.Printf("   ID:      %s\n", tx.ID)
		fmt.Printf("   Date:    %s\n", tx.TransactionDate)
		if tx.ValutaDate != "" {
			fmt.Printf("   Valuta:  %s\n", tx.ValutaDate)
		}
		if tx.HasValue() {
			fmt.Printf("   Amount:  %.2f %s\n", tx.ValueOrZero(), tx.Currency)
		} else {
			fmt.Printf("   Amount:  (unreadable) %s\n", tx.Currency)
		}
		fmt.Printf("   Type:    %s\n", tx.Type)
		fmt.Printf("   Partner: %s\n", tx.Partner.Name)
		fmt.Printf("   Bank:    %s\n", tx.Bank)
	}
	fmt.Println()
}
