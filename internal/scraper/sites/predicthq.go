package sites

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dohaevents/internal/config"
	"dohaevents/internal/models/domain"

	"github.com/go-resty/resty/v2"
)

// phqCategories maps the PredictHQ taxonomy onto the local one.
// Anything unrecognized lands in "other".
var phqCategories = map[string]domain.Category{
	"concerts":        domain.CategoryMusic,
	"festivals":       domain.CategoryFestival,
	"performing-arts": domain.CategoryArts,
	"sports":          domain.CategorySports,
	"expos":           domain.CategoryArts,
	"community":       domain.CategoryOther,
}

// phqCategoryFilter is the allow-list sent with the query.
const phqCategoryFilter = "concerts,festivals,performing-arts,sports,expos"

type phqResponse struct {
	Results []phqResult `json:"results"`
}

type phqResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Geo         struct {
		Address struct {
			Formatted string `json:"formatted_address"`
		} `json:"address"`
	} `json:"geo"`
}

// FetchPredictHQ queries the PredictHQ events search for the window
// today .. today+3 months around the configured origin. A response with
// no results field is zero events, not an error. The caller guarantees a
// credential is configured.
func FetchPredictHQ(ctx context.Context, cfg config.ScraperConfig) ([]domain.Candidate, error) {
	op := "sites.FetchPredictHQ()"

	today := time.Now()
	until := today.AddDate(0, 3, 0)

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.PredictHQ.APIToken)

	var body phqResponse
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"location_around.origin": cfg.PredictHQ.Origin,
			"location_around.radius": cfg.PredictHQ.Radius,
			"start.gte":              today.Format("2006-01-02"),
			"start.lte":              until.Format("2006-01-02"),
			"limit":                  strconv.Itoa(cfg.PredictHQ.Limit),
			"sort":                   "start",
			"category":               phqCategoryFilter,
		}).
		SetResult(&body).
		ForceContentType("application/json").
		Get(cfg.PredictHQ.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: api returned %s", op, resp.Status())
	}

	candidates := make([]domain.Candidate, 0, len(body.Results))
	for _, r := range body.Results {
		date, clock := splitTimestamp(r.Start)
		endDate, _ := splitTimestamp(r.End)

		category, ok := phqCategories[r.Category]
		if !ok {
			category = domain.CategoryOther
		}

		candidates = append(candidates, domain.Candidate{
			Title:       r.Title,
			Date:        date,
			EndDate:     endDate,
			Time:        clock,
			Location:    r.Geo.Address.Formatted,
			Category:    category,
			Description: r.Description,
			Source:      "PredictHQ",
		})
	}

	return candidates, nil
}

// splitTimestamp splits a combined "2025-12-18T19:30:00Z" stamp into its
// date and HH:MM parts. A bare date has no time part.
func splitTimestamp(ts string) (date, clock string) {
	if ts == "" {
		return "", ""
	}
	if len(ts) >= 16 && ts[10] == 'T' {
		return ts[:10], ts[11:16]
	}
	if len(ts) >= 10 {
		return ts[:10], ""
	}
	return ts, ""
}
