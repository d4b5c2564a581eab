// Package processor orchestrates a full extraction run: it enumerates the
// requested sources, fans documents out to the job queue, collects the
// per-document results, applies the date filter and hands the merged batch
// to the configured exporters.
package processor

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/export"
	"github.com/dvloznov/statement-extractor/internal/extract"
	"github.com/dvloznov/statement-extractor/internal/gcsio"
	"github.com/dvloznov/statement-extractor/internal/jobs"
	"github.com/dvloznov/statement-extractor/internal/jobs/inmemory"
	"github.com/dvloznov/statement-extractor/internal/logger"
)

// supportedExts are the document types detection knows how to route.
var supportedExts = map[string]bool{
	".pdf": true,
	".csv": true,
}

// Fetcher loads document bytes for a source. The default handles local
// paths and gs:// URIs.
type Fetcher func(ctx context.Context, source string) ([]byte, error)

// Processor runs extractions end to end. Documents are processed
// concurrently; transactions within one document keep their document order.
type Processor struct {
	Detector *extract.Detector
	Fetch    Fetcher

	// Workers and QueueSize size the in-memory job queue.
	Workers   int
	QueueSize int

	// From and To bound the transaction dates kept in the result, as ISO
	// dates. Empty bounds are open. Transactions whose date never
	// normalized are kept: filtering is not allowed to silently drop what
	// parsing could not read.
	From string
	To   string

	Exporters []export.Exporter
}

// DefaultFetch reads a local file or downloads a gs:// object.
func DefaultFetch(ctx context.Context, source string) ([]byte, error) {
	if gcsio.IsURI(source) {
		return gcsio.Fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return data, nil
}

// Run extracts every document under the given paths and exports the merged
// result. Directory paths are walked recursively; unsupported files are
// skipped. The returned slice is the exported batch.
func (p *Processor) Run(ctx context.Context, paths []string) ([]domain.Transaction, error) {
	runID := uuid.New().String()
	log := logger.FromContext(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx, log)

	sources, err := p.enumerate(paths)
	if err != nil {
		return nil, err
	}
	log.Info().Int("documents", len(sources)).Msg("starting extraction run")

	results, err := p.extractAll(ctx, sources)
	if err != nil {
		return nil, err
	}

	merged := p.merge(sources, results)
	filtered := filterByDate(merged, p.From, p.To)
	log.Info().
		Int("extracted", len(merged)).
		Int("after_filter", len(filtered)).
		Msg("extraction run done")

	for _, e := range p.Exporters {
		if err := e.Export(ctx, filtered); err != nil {
			return nil, fmt.Errorf("export %s: %w", e.Name(), err)
		}
		log.Info().Str("sink", e.Name()).Int("transactions", len(filtered)).Msg("exported")
	}
	return filtered, nil
}

// enumerate expands the requested paths into the ordered source list.
// gs:// URIs pass through; directories are walked recursively.
func (p *Processor) enumerate(paths []string) ([]string, error) {
	var sources []string
	for _, path := range paths {
		if gcsio.IsURI(path) {
			sources = append(sources, path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			sources = append(sources, path)
			continue
		}

		// Walked files are sorted so directory runs are deterministic;
		// explicit file arguments keep their command-line order.
		var walked []string
		err = filepath.WalkDir(path, func(sub string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if supportedExts[strings.ToLower(filepath.Ext(sub))] {
				walked = append(walked, sub)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
		sort.Strings(walked)
		sources = append(sources, walked...)
	}
	return sources, nil
}

// extractAll runs one extraction job per source on the queue and returns
// the per-source results keyed by source.
func (p *Processor) extractAll(ctx context.Context, sources []string) (map[string][]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	fetch := p.Fetch
	if fetch == nil {
		fetch = DefaultFetch
	}

	var mu sync.Mutex
	results := make(map[string][]domain.Transaction, len(sources))
	var wg sync.WaitGroup

	store := inmemory.NewStore()
	queue := inmemory.NewQueue(p.QueueSize, p.Workers, store)
	defer queue.Close()

	handler := func(ctx context.Context, job jobs.Job) error {
		ej, ok := job.(*jobs.ExtractDocumentJob)
		if !ok {
			return fmt.Errorf("unexpected job type %s", job.GetType())
		}
		txs, err := p.extractOne(ctx, ej)
		if err != nil {
			return err
		}
		mu.Lock()
		results[ej.Source] = txs
		mu.Unlock()
		return nil
	}

	if err := queue.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		defer wg.Done()
		err := handler(ctx, job)
		if err != nil {
			// Failures surface in the job store; the run keeps going so
			// one broken statement does not sink the batch.
			log.Error().Err(err).Str("source", job.GetID()).Msg("document failed")
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("start queue: %w", err)
	}

	for _, src := range sources {
		wg.Add(1)
		job := &jobs.ExtractDocumentJob{JobID: src, Source: src, MaxRetries: 1}
		if err := queue.PublishExtractDocument(ctx, job); err != nil {
			wg.Done()
			return nil, fmt.Errorf("publish %s: %w", src, err)
		}
	}
	wg.Wait()

	return results, nil
}

// extractOne fetches, detects and extracts a single document.
func (p *Processor) extractOne(ctx context.Context, job *jobs.ExtractDocumentJob) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	fetch := p.Fetch
	if fetch == nil {
		fetch = DefaultFetch
	}
	data, err := fetch(ctx, job.Source)
	if err != nil {
		return nil, err
	}

	doc := extract.Document{Source: job.Source, Data: data}
	engine, ok := p.Detector.Detect(ctx, doc)
	if !ok {
		log.Info().Str("source", job.Source).Msg("no engine for document, skipping")
		return nil, nil
	}
	job.Bank = engine.Bank()

	txs, err := engine.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("source", job.Source).
		Str("bank", engine.Bank()).
		Int("transactions", len(txs)).
		Msg("document extracted")
	return txs, nil
}

// merge concatenates per-document results in source order, keeping each
// document's internal order intact.
func (p *Processor) merge(sources []string, results map[string][]domain.Transaction) []domain.Transaction {
	var merged []domain.Transaction
	for _, src := range sources {
		merged = append(merged, results[src]...)
	}
	return merged
}

// filterByDate keeps transactions within [from, to]. ISO dates compare
// correctly as strings. Unnormalized dates always pass the filter.
func filterByDate(txs []domain.Transaction, from, to string) []domain.Transaction {
	if from == "" && to == "" {
		return txs
	}
	kept := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		d := tx.TransactionDate
		if !isISODate(d) {
			kept = append(kept, tx)
			continue
		}
		if from != "" && d < from {
			continue
		}
		if to != "" && d > to {
			continue
		}
		kept = append(kept, tx)
	}
	return kept
}

func isISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
