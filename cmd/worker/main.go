package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/statement-extractor/internal/config"
	"github.com/dvloznov/statement-extractor/internal/export"
	"github.com/dvloznov/statement-extractor/internal/extract"
	"github.com/dvloznov/statement-extractor/internal/jobs"
	"github.com/dvloznov/statement-extractor/internal/jobs/inmemory"
	"github.com/dvloznov/statement-extractor/internal/logger"
	"github.com/dvloznov/statement-extractor/internal/pdftext"
	"github.com/dvloznov/statement-extractor/internal/processor"
)

// The worker polls an inbox directory for new statements, extracts each one
// and writes the transactions to a JSON file next to the source document.
func main() {
	// Initialize logger
	log := logger.New()

	cfgPath := flag.String("config", "", "Path to config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize job store and queue
	// In production, this would be replaced with Cloud Tasks or Pub/Sub
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.Workers, jobStore)

	log.Info().
		Str("inbox", cfg.InboxDir).
		Int("workers", cfg.Workers).
		Msg("Starting worker service")

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	detector := &extract.Detector{
		Opts:          cfg.ExtractOptions(),
		Text:          pdftext.Provider(),
		ModelFallback: cfg.ModelFallback,
		ModelName:     cfg.ModelName,
	}

	// Create job handler that extracts one statement per job
	handler := func(ctx context.Context, job jobs.Job) error {
		extractJob, ok := job.(*jobs.ExtractDocumentJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", extractJob.JobID).
			Str("source", extractJob.Source).
			Msg("Processing extraction job")

		data, err := processor.DefaultFetch(ctx, extractJob.Source)
		if err != nil {
			return err
		}

		doc := extract.Document{Source: extractJob.Source, Data: data}
		engine, ok := detector.Detect(ctx, doc)
		if !ok {
			log.Info().Str("source", extractJob.Source).Msg("No engine for document, skipping")
			return nil
		}
		extractJob.Bank = engine.Bank()

		txs, err := engine.Extract(ctx, doc)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", extractJob.JobID).
				Str("source", extractJob.Source).
				Msg("Extraction failed")
			return err
		}

		out := &export.JSONExporter{Path: outputPath(extractJob.Source)}
		if err := out.Export(ctx, txs); err != nil {
			return err
		}

		log.Info().
			Str("job_id", extractJob.JobID).
			Str("source", extractJob.Source).
			Int("transactions", len(txs)).
			Msg("Extraction job completed successfully")

		return nil
	}

	// Start consuming jobs
	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	// Poll the inbox and publish a job per new statement
	go pollInbox(ctx, cfg, jobQueue)

	log.Info().Msg("Worker service started, waiting for statements...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	// Cancel context to stop workers
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker service exited")
}

// pollInbox scans the inbox directory on an interval and publishes one job
// per statement not yet seen. Documents with an existing output file are
// treated as done across restarts.
func pollInbox(ctx context.Context, cfg config.Config, queue *inmemory.Queue) {
	log := logger.FromContext(ctx)

	interval := time.Duration(cfg.PollInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := make(map[string]bool)

	scan := func() {
		entries, err := os.ReadDir(cfg.InboxDir)
		if err != nil {
			log.Warn().Err(err).Str("inbox", cfg.InboxDir).Msg("Failed to read inbox")
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext != ".pdf" && ext != ".csv" {
				continue
			}
			source := filepath.Join(cfg.InboxDir, entry.Name())
			if seen[source] {
				continue
			}
			if _, err := os.Stat(outputPath(source)); err == nil {
				seen[source] = true
				continue
			}
			seen[source] = true

			job := &jobs.ExtractDocumentJob{Source: source}
			if err := queue.PublishExtractDocument(ctx, job); err != nil {
				log.Error().Err(err).Str("source", source).Msg("Failed to publish job")
				continue
			}
			log.Info().Str("source", source).Str("job_id", job.JobID).Msg("Queued statement")
		}
	}

	scan()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scan()
		}
	}
}

// outputPath is the result file written next to a processed statement.
func outputPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".transactions.json"
}
