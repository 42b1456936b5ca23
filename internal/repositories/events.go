// Package repositories owns the persisted events document. The pipeline
// owns only the "events" collection and the "lastUpdated" stamp; every
// other top-level field (notably the "sources" directory) is carried as
// raw JSON and written back untouched.
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dohaevents/internal/config"
	"dohaevents/internal/models/domain"
)

// Document is the in-memory form of the events file.
type Document struct {
	Events []domain.Event

	// extra holds the top-level fields the pipeline does not own.
	extra map[string]json.RawMessage
}

// Sources decodes the passthrough source directory for reporting. A
// missing or malformed directory yields nil; it is display-only data.
func (d *Document) Sources() []domain.SourceInfo {
	raw, ok := d.extra["sources"]
	if !ok {
		return nil
	}
	var sources []domain.SourceInfo
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil
	}
	return sources
}

// Store reads and writes the events document on disk.
type Store struct {
	logger *slog.Logger
	path   string
}

func New(logger *slog.Logger, cfg *config.Config) *Store {
	op := "repositories.New()"
	log := logger.With(slog.String("op", op))
	log.Info("creating events store", slog.String("path", cfg.EventsFile))

	return &Store{
		logger: logger,
		path:   cfg.EventsFile,
	}
}

// Load parses the persisted document. Any failure here is fatal for the
// run: without a readable baseline there is nothing safe to merge into.
func (s *Store) Load() (*Document, error) {
	op := "Store.Load()"

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%s: invalid events document: %w", op, err)
	}

	rawEvents, ok := fields["events"]
	if !ok {
		return nil, fmt.Errorf("%s: events document has no events field", op)
	}

	var events []domain.Event
	if err := json.Unmarshal(rawEvents, &events); err != nil {
		return nil, fmt.Errorf("%s: invalid events collection: %w", op, err)
	}

	delete(fields, "events")
	delete(fields, "lastUpdated")

	return &Document{
		Events: events,
		extra:  fields,
	}, nil
}

// Save serializes the document with the given collection and refresh
// time, preserving all passthrough fields. The file is replaced via a
// temp-file rename, so a failed write leaves the prior document intact.
func (s *Store) Save(doc *Document, events []domain.Event, updatedAt time.Time) error {
	op := "Store.Save()"
	log := s.logger.With(slog.String("op", op))

	out := make(map[string]json.RawMessage, len(doc.extra)+2)
	for k, v := range doc.extra {
		out[k] = v
	}

	rawEvents, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	out["events"] = rawEvents

	rawStamp, err := json.Marshal(updatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	out["lastUpdated"] = rawStamp

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("events document saved",
		slog.Int("events", len(events)),
		slog.String("lastUpdated", updatedAt.UTC().Format(time.RFC3339)),
	)

	return nil
}
