package normalizer

import (
	"strings"
	"testing"

	"dohaevents/internal/models/domain"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"18-12-2025", "2025-12-18"},
		{"1-2-2026", "2026-02-01"},
		{"2025-12-18", "2025-12-18"},
		{"26 December 2025", "2025-12-26"},
		{"5 Jan 2026", "2026-01-05"},
		{"January 5, 2026", "2026-01-05"},
		{"2026-01-05T19:30:00Z", "2026-01-05"},
		{"", ""},
		{"sometime in spring", ""},
		{"32-01-2026", ""},
		{"18-13-2025", ""},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, NormalizeDate(tc.in), "input %q", tc.in)
	}
}

func TestCategorizeOrder(t *testing.T) {
	testCases := []struct {
		text     string
		expected domain.Category
	}{
		{"Live Jazz Concert at Katara", domain.CategoryMusic},
		{"Doha Marathon registration open", domain.CategorySports},
		{"Friday Brunch at the Pearl", domain.CategoryFood},
		{"Spring Carnival", domain.CategoryFestival},
		{"Islamic Art Exhibition", domain.CategoryArts},
		{"Weekly networking meetup", domain.CategoryOther},
		// "music festival" hits the music group first: order matters.
		{"Doha Music Festival", domain.CategoryMusic},
		// "food festival" likewise resolves to food, not festival.
		{"Doha Food Festival", domain.CategoryFood},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, Categorize(tc.text), "text %q", tc.text)
	}
}

func TestIsFreePrice(t *testing.T) {
	require.True(t, IsFreePrice("Free"))
	require.True(t, IsFreePrice("FREE entry"))
	require.True(t, IsFreePrice("0"))
	require.True(t, IsFreePrice("QAR 0"))
	require.False(t, IsFreePrice(""))
	require.False(t, IsFreePrice("QAR 150"))
	require.False(t, IsFreePrice("Check website"))
}

func TestNormalizeRejectsMissingTitle(t *testing.T) {
	_, ok := Normalize(domain.Candidate{Title: "   ", Date: "2026-01-01"})
	require.False(t, ok)
}

func TestNormalizeDefaults(t *testing.T) {
	event, ok := Normalize(domain.Candidate{
		Title:  "Desert Stargazing Night",
		Date:   "18-12-2025",
		Source: "Marhaba",
	})
	require.True(t, ok)

	require.True(t, strings.HasPrefix(event.ID, "evt_"))
	require.Equal(t, "2025-12-18", event.Date)
	require.Empty(t, event.EndDate)
	require.Empty(t, event.Time)
	require.Equal(t, DefaultLocation, event.Location)
	require.Equal(t, DefaultPrice, event.Price)
	require.False(t, event.IsFree)
	require.Equal(t, "Desert Stargazing Night", event.Description)
	require.Equal(t, SearchURL("Desert Stargazing Night"), event.URL)
	require.Equal(t, "Marhaba", event.Source)
}

func TestNormalizeKeepsUnparseableDateEmpty(t *testing.T) {
	event, ok := Normalize(domain.Candidate{Title: "Mystery Date Event", Date: "whenever"})
	require.True(t, ok)
	require.Empty(t, event.Date, "unparseable date stays empty so merge admission fails")
}

func TestNormalizeDropsEndDateBeforeStart(t *testing.T) {
	event, ok := Normalize(domain.Candidate{
		Title:   "Backwards Range Exhibition",
		Date:    "2026-02-10",
		EndDate: "2026-02-01",
	})
	require.True(t, ok)
	require.Equal(t, "2026-02-10", event.Date)
	require.Empty(t, event.EndDate)
}

func TestNormalizePreservesAdapterCategory(t *testing.T) {
	event, ok := Normalize(domain.Candidate{
		Title:    "Concert Under The Stars",
		Date:     "2026-03-03",
		Category: domain.CategorySports, // adapter mapping wins over keywords
	})
	require.True(t, ok)
	require.Equal(t, domain.CategorySports, event.Category)
}

func TestNormalizeClockValidation(t *testing.T) {
	event, ok := Normalize(domain.Candidate{Title: "Evening Dhow Cruise", Date: "2026-03-03", Time: "19:30"})
	require.True(t, ok)
	require.Equal(t, "19:30", event.Time)

	event, ok = Normalize(domain.Candidate{Title: "Evening Dhow Cruise", Date: "2026-03-03", Time: "late"})
	require.True(t, ok)
	require.Empty(t, event.Time)
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		require.True(t, strings.HasPrefix(id, "evt_"))
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
