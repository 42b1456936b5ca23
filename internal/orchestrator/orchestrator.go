// Package orchestrator sequences one pipeline run: load the persisted
// document, fetch and normalize every source, merge additively, prune
// expired events when configured, sort and write back. Nothing is
// written unless every pre-write stage succeeded.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dohaevents/internal/config"
	"dohaevents/internal/merge"
	"dohaevents/internal/models/domain"
	"dohaevents/internal/normalizer"
	"dohaevents/internal/repositories"
	"dohaevents/internal/scraper"
)

// Store is the persistence gateway the orchestrator drives.
type Store interface {
	Load() (*repositories.Document, error)
	Save(doc *repositories.Document, events []domain.Event, updatedAt time.Time) error
}

// Fetcher produces one candidate batch per configured source.
type Fetcher interface {
	FetchAll(ctx context.Context) []scraper.Batch
}

type Orchestrator struct {
	logger  *slog.Logger
	cfg     *config.Config
	store   Store
	fetcher Fetcher
	now     func() time.Time
}

func New(logger *slog.Logger, cfg *config.Config, store Store, fetcher Fetcher) *Orchestrator {
	op := "Orchestrator.New()"
	log := logger.With(slog.String("op", op))
	log.Info("creating orchestrator")

	return &Orchestrator{
		logger:  logger,
		cfg:     cfg,
		store:   store,
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Run executes one pipeline pass. Load and save failures are fatal and
// returned; everything in between degrades per source or per record.
func (o *Orchestrator) Run(ctx context.Context) error {
	op := "Orchestrator.Run()"
	log := o.logger.With(slog.String("op", op))

	start := o.now()
	log.Info("starting events update", slog.Time("at", start))

	doc, err := o.store.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("loaded events document",
		slog.Int("curated", len(doc.Events)),
		slog.Int("sources", len(doc.Sources())),
	)

	merger := merge.New(doc.Events)

	for _, batch := range o.fetcher.FetchAll(ctx) {
		batchlog := log.With(slog.String("source", batch.Source))

		normalized := make([]domain.Event, 0, len(batch.Candidates))
		for _, c := range batch.Candidates {
			event, ok := normalizer.Normalize(c)
			if !ok {
				// Record-local defect: drop silently, siblings unaffected.
				continue
			}
			normalized = append(normalized, event)
		}

		added := merger.Add(normalized)
		batchlog.Info("batch merged",
			slog.Int("fetched", len(batch.Candidates)),
			slog.Int("normalized", len(normalized)),
			slog.Int("added", added),
		)
	}

	events := merger.Events()

	removed := 0
	if o.cfg.Scraper.PruneExpired {
		cutoff := merge.ExpiryCutoff(o.now())
		events, removed = merge.Expire(events, cutoff)
		log.Info("expired events pruned",
			slog.String("cutoff", cutoff),
			slog.Int("removed", removed),
		)
	}

	merge.SortByDate(events)

	// A cancelled run must leave the persisted document untouched.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := o.store.Save(doc, events, o.now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("events update finished",
		slog.Int("total", len(events)),
		slog.Int("removed", removed),
		slog.Duration("took", o.now().Sub(start)),
	)

	return nil
}
