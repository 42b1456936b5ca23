package sites

import (
	"context"
	"strings"
	"time"

	"dohaevents/internal/config"
	"dohaevents/internal/models/domain"

	"github.com/go-resty/resty/v2"
)

// FetchFunc is the adapter contract for a single source. A failed fetch
// returns an error and no candidates, never a partial batch.
type FetchFunc func(ctx context.Context) ([]domain.Candidate, error)

const userAgent = "Mozilla/5.0 (compatible; DohaEventsBot/1.0)"

// newPageClient builds the HTML page fetcher: descriptive client
// identifier, HTML accept header, bounded wait, at most one redirect.
// FlexibleRedirectPolicy counts requests already made, so a cap of 2
// allows exactly one hop.
func newPageClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(2)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
}

// navTitles are link texts that look like events but are site chrome.
var navTitles = map[string]struct{}{
	"Event":  {},
	"Events": {},
	"Venues": {},
	"All":    {},
}

// skipTitle reports whether a derived title is too short or is a known
// navigational label.
func skipTitle(title string) bool {
	if len(title) < 5 {
		return true
	}
	_, nav := navTitles[title]
	return nav
}

// titleFromSlug synthesizes a display title from a URL slug:
// "jazz-night-at-katara" becomes "Jazz Night At Katara".
func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// applyUndatedPolicy resolves candidates whose date could not be found:
// dropped in strict mode, stamped with today's date in lenient mode.
func applyUndatedPolicy(candidates []domain.Candidate, policy string, now time.Time) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Date == "" {
			if policy != config.UndatedToday {
				continue
			}
			c.Date = now.Format("2006-01-02")
		}
		kept = append(kept, c)
	}
	return kept
}

// uniqueStrings removes duplicates while preserving order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, v := range input {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
