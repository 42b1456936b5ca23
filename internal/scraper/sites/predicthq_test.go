package sites

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dohaevents/internal/config"
	"dohaevents/internal/models/domain"

	"github.com/stretchr/testify/require"
)

func phqConfig(apiURL string) config.ScraperConfig {
	return config.ScraperConfig{
		Timeout: 5 * time.Second,
		PredictHQ: config.PredictHQConfig{
			APIToken: "test-token",
			URL:      apiURL,
			Origin:   "25.2854,51.5310",
			Radius:   "50km",
			Limit:    50,
		},
	}
}

func TestFetchPredictHQ(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"results": [
				{
					"title": "Kahraba Live in Concert",
					"description": "An evening of live music",
					"category": "concerts",
					"start": "2026-02-14T19:30:00Z",
					"end": "2026-02-15T01:00:00Z",
					"geo": {"address": {"formatted_address": "Lusail Stadium, Lusail"}}
				},
				{
					"title": "Unknown Category Gathering",
					"category": "daylight-savings",
					"start": "2026-03-01"
				}
			]
		}`)
	}))
	t.Cleanup(srv.Close)

	candidates, err := FetchPredictHQ(context.Background(), phqConfig(srv.URL))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	require.Equal(t, "Bearer test-token", gotAuth)
	require.Equal(t, "25.2854,51.5310", gotQuery["location_around.origin"])
	require.Equal(t, "50km", gotQuery["location_around.radius"])
	require.Equal(t, "50", gotQuery["limit"])
	require.Equal(t, "start", gotQuery["sort"])
	require.Equal(t, phqCategoryFilter, gotQuery["category"])

	today := time.Now().Format("2006-01-02")
	require.Equal(t, today, gotQuery["start.gte"])
	require.Equal(t, time.Now().AddDate(0, 3, 0).Format("2006-01-02"), gotQuery["start.lte"])

	first := candidates[0]
	require.Equal(t, "Kahraba Live in Concert", first.Title)
	require.Equal(t, "2026-02-14", first.Date)
	require.Equal(t, "2026-02-15", first.EndDate)
	require.Equal(t, "19:30", first.Time)
	require.Equal(t, "Lusail Stadium, Lusail", first.Location)
	require.Equal(t, domain.CategoryMusic, first.Category)
	require.Equal(t, "An evening of live music", first.Description)
	require.Equal(t, "PredictHQ", first.Source)

	second := candidates[1]
	require.Equal(t, "2026-03-01", second.Date)
	require.Empty(t, second.Time)
	require.Empty(t, second.Location, "normalizer supplies the city-level fallback")
	require.Equal(t, domain.CategoryOther, second.Category)
}

func TestFetchPredictHQEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results": []}`)
	}))
	t.Cleanup(srv.Close)

	candidates, err := FetchPredictHQ(context.Background(), phqConfig(srv.URL))
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestFetchPredictHQMissingResultsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"count": 0}`)
	}))
	t.Cleanup(srv.Close)

	candidates, err := FetchPredictHQ(context.Background(), phqConfig(srv.URL))
	require.NoError(t, err, "a missing results field is zero events, not an error")
	require.Empty(t, candidates)
}

func TestFetchPredictHQMissingContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No Content-Type header: the body must still decode as JSON.
		fmt.Fprint(w, `{"results": [{"title": "Lusail Winter Run", "start": "2026-02-01", "category": "sports"}]}`)
	}))
	t.Cleanup(srv.Close)

	candidates, err := FetchPredictHQ(context.Background(), phqConfig(srv.URL))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "Lusail Winter Run", candidates[0].Title)
}

func TestFetchPredictHQHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid token"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := FetchPredictHQ(context.Background(), phqConfig(srv.URL))
	require.Error(t, err)
}

func TestSplitTimestamp(t *testing.T) {
	testCases := []struct {
		in    string
		date  string
		clock string
	}{
		{"2026-02-14T19:30:00Z", "2026-02-14", "19:30"},
		{"2026-02-14", "2026-02-14", ""},
		{"", "", ""},
	}

	for _, tc := range testCases {
		date, clock := splitTimestamp(tc.in)
		require.Equal(t, tc.date, date)
		require.Equal(t, tc.clock, clock)
	}
}
