// Package merge implements the additive event merge: curated records are
// ground truth and are never altered or removed here; scraped batches may
// only add records that pass the dedup and admission gates.
package merge

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"dohaevents/internal/models/domain"
)

// minTitleLength guards against slug fragments and navigational labels
// that survived adapter filtering. Titles must be strictly longer.
const minTitleLength = 5

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// DedupKey reduces a title to its lower-case alphanumeric characters.
// Punctuation and case differences collide; genuine paraphrases do not.
func DedupKey(title string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(title), "")
}

// Merger accumulates batches on top of an existing collection. The key
// set carries across batches, so within one run the first-processed
// source wins title collisions.
type Merger struct {
	events []domain.Event
	keys   map[string]struct{}
}

// New seeds a merger with the persisted collection. The slice is copied;
// the caller's collection is never mutated.
func New(existing []domain.Event) *Merger {
	m := &Merger{
		events: make([]domain.Event, len(existing)),
		keys:   make(map[string]struct{}, len(existing)),
	}
	copy(m.events, existing)
	for _, e := range existing {
		m.keys[DedupKey(e.Title)] = struct{}{}
	}
	return m
}

// Add admits every candidate of the batch that has a date, a title
// longer than the minimum and an unseen dedup key. It returns the number
// of records admitted.
func (m *Merger) Add(batch []domain.Event) int {
	added := 0
	for _, e := range batch {
		if e.Date == "" || len(e.Title) <= minTitleLength {
			continue
		}
		key := DedupKey(e.Title)
		if _, seen := m.keys[key]; seen {
			continue
		}
		m.events = append(m.events, e)
		m.keys[key] = struct{}{}
		added++
	}
	return added
}

// Events returns the merged collection.
func (m *Merger) Events() []domain.Event {
	return m.events
}

// ExpiryCutoff is the pruning threshold for a run: start of the day
// before now. Events still current yesterday are kept.
func ExpiryCutoff(now time.Time) string {
	return now.AddDate(0, 0, -1).Format("2006-01-02")
}

// Expire drops events whose effective end date is strictly before the
// cutoff and returns the survivors plus the removed count.
func Expire(events []domain.Event, cutoff string) ([]domain.Event, int) {
	kept := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.EffectiveEnd() < cutoff {
			continue
		}
		kept = append(kept, e)
	}
	return kept, len(events) - len(kept)
}

// SortByDate orders the collection ascending by start date. The sort is
// stable so equal-date records keep their curated-first order.
func SortByDate(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
}
