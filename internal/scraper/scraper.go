// Package scraper holds the source adapter registry. Adapters run
// sequentially in a fixed order; a failing adapter is logged and yields
// an empty batch so one broken source never aborts the run. The fixed
// order also makes intra-run title collisions deterministic: the
// earlier-registered source wins.
package scraper

import (
	"context"
	"log/slog"

	"dohaevents/internal/config"
	"dohaevents/internal/models/domain"
	"dohaevents/internal/scraper/sites"
)

// Batch is what one source produced in one run. A batch may be empty;
// order of batches follows registration order.
type Batch struct {
	Source     string
	Candidates []domain.Candidate
}

type source struct {
	name  string
	fetch sites.FetchFunc
}

type Scraper struct {
	logger  *slog.Logger
	cfg     *config.Config
	sources []source
}

// New registers the enabled adapters. A missing PredictHQ credential
// disables that adapter with a warning; it is not an error.
func New(logger *slog.Logger, cfg *config.Config) *Scraper {
	op := "Scraper.New()"
	log := logger.With(slog.String("op", op))

	log.Info("creating scraper service")

	s := &Scraper{
		logger: logger,
		cfg:    cfg,
	}

	scfg := cfg.Scraper

	if scfg.Marhaba.Enabled {
		s.register("Marhaba", func(ctx context.Context) ([]domain.Candidate, error) {
			return sites.ScrapeMarhaba(ctx, scfg)
		})
	}

	if scfg.PredictHQ.APIToken != "" {
		s.register("PredictHQ", func(ctx context.Context) ([]domain.Candidate, error) {
			return sites.FetchPredictHQ(ctx, scfg)
		})
	} else {
		log.Warn("PREDICTHQ_API_KEY not set, skipping PredictHQ source")
	}

	if scfg.Platinumlist.Enabled {
		s.register("Platinumlist", func(ctx context.Context) ([]domain.Candidate, error) {
			return sites.ScrapePlatinumlist(ctx, scfg)
		})
	}

	return s
}

func (s *Scraper) register(name string, fetch sites.FetchFunc) {
	s.sources = append(s.sources, source{name: name, fetch: fetch})
}

// Sources returns the registered source names in processing order.
func (s *Scraper) Sources() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.name
	}
	return names
}

// FetchAll runs every registered adapter in order and returns one batch
// per source. Fetch and parse failures stay inside this boundary: they
// are logged and produce an empty batch.
func (s *Scraper) FetchAll(ctx context.Context) []Batch {
	op := "Scraper.FetchAll()"
	log := s.logger.With(slog.String("op", op))

	batches := make([]Batch, 0, len(s.sources))
	for _, src := range s.sources {
		srclog := log.With(slog.String("source", src.name))
		srclog.Info("fetching source")

		candidates, err := src.fetch(ctx)
		if err != nil {
			srclog.Error("source fetch failed", slog.String("error", err.Error()))
			candidates = nil
		}

		srclog.Info("source fetched", slog.Int("candidates", len(candidates)))
		batches = append(batches, Batch{Source: src.name, Candidates: candidates})
	}

	return batches
}
