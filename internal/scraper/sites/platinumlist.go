package sites

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dohaevents/internal/config"
	"dohaevents/internal/models/domain"

	"github.com/PuerkitoBio/goquery"
)

// ScrapePlatinumlist is the structured-markup adapter for the
// Platinumlist Doha listing: event anchors are selected from the parsed
// document, titles come from link text (slug fallback) and dates from
// embedded <time datetime> elements when present. Disabled by default.
func ScrapePlatinumlist(ctx context.Context, cfg config.ScraperConfig) ([]domain.Candidate, error) {
	op := "sites.ScrapePlatinumlist()"

	base, err := url.Parse(cfg.Platinumlist.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := newPageClient(cfg.Timeout)
	resp, err := client.R().SetContext(ctx).Get(cfg.Platinumlist.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: listing returned %s", op, resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byLink := make(map[string]domain.Candidate)
	var links []string

	doc.Find(`a[href*="/event"]`).Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		absolute, err := base.Parse(href)
		if err != nil {
			return
		}
		link := absolute.String()

		title := strings.TrimSpace(sel.Text())
		if title == "" {
			slug := strings.Trim(absolute.Path, "/")
			if idx := strings.LastIndex(slug, "/"); idx >= 0 {
				slug = slug[idx+1:]
			}
			title = titleFromSlug(slug)
		}
		if skipTitle(title) {
			return
		}

		date := ""
		if dt, ok := sel.Find("time").Attr("datetime"); ok {
			date, _ = splitTimestamp(dt)
		}

		links = append(links, link)
		if _, dup := byLink[link]; !dup {
			byLink[link] = domain.Candidate{
				Title:  title,
				Date:   date,
				URL:    link,
				Source: "Platinumlist",
			}
		}
	})

	var candidates []domain.Candidate
	for _, link := range uniqueStrings(links) {
		candidates = append(candidates, byLink[link])
	}

	return applyUndatedPolicy(candidates, cfg.UndatedPolicy, time.Now()), nil
}
