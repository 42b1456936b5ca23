package sites

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"dohaevents/internal/config"
	"dohaevents/internal/models/domain"

	"github.com/go-resty/resty/v2"
)

// The Marhaba listing markup is not contractually stable, so the page is
// treated as opaque text and pattern-matched rather than parsed as a DOM.
var (
	marhabaSlugRe = regexp.MustCompile(`/event/([^/]+)/?$`)
	longDateRe    = regexp.MustCompile(`(?i)(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})`)
)

// ScrapeMarhaba fetches the marhaba.qa events listing, extracts event
// links by anchor pattern and derives titles from URL slugs. Dates are
// best-effort: the first few detail pages are fetched and matched for a
// long-form date; what happens to the rest depends on the configured
// undated policy.
func ScrapeMarhaba(ctx context.Context, cfg config.ScraperConfig) ([]domain.Candidate, error) {
	op := "sites.ScrapeMarhaba()"

	base, err := url.Parse(cfg.Marhaba.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := newPageClient(cfg.Timeout)
	resp, err := client.R().SetContext(ctx).Get(cfg.Marhaba.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: listing returned %s", op, resp.Status())
	}

	prefix := base.Scheme + "://" + base.Host + "/event/"
	linkRe := regexp.MustCompile(`href="(` + regexp.QuoteMeta(prefix) + `[^"]+)"`)

	var candidates []domain.Candidate
	seen := make(map[string]struct{})

	for _, m := range linkRe.FindAllStringSubmatch(resp.String(), -1) {
		link := m[1]
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		slugMatch := marhabaSlugRe.FindStringSubmatch(link)
		if slugMatch == nil {
			continue
		}
		title := titleFromSlug(slugMatch[1])
		if skipTitle(title) {
			continue
		}

		candidates = append(candidates, domain.Candidate{
			Title:  title,
			URL:    link,
			Source: "Marhaba",
		})
	}

	// Detail pages are fetched for a small prefix of the results only,
	// to bound the request volume against the scraped site.
	limit := cfg.DetailFetchLimit
	if limit > len(candidates) {
		limit = len(candidates)
	}
	for i := 0; i < limit; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		default:
		}
		candidates[i].Date = fetchEventDate(ctx, client, candidates[i].URL)
	}

	return applyUndatedPolicy(candidates, cfg.UndatedPolicy, time.Now()), nil
}

// fetchEventDate pulls a candidate's detail page and matches a long-form
// date like "26 December 2025". Any failure yields an empty date; the
// undated policy decides the candidate's fate.
func fetchEventDate(ctx context.Context, client *resty.Client, link string) string {
	resp, err := client.R().SetContext(ctx).Get(link)
	if err != nil || resp.IsError() {
		return ""
	}

	m := longDateRe.FindString(resp.String())
	return strings.TrimSpace(m)
}
