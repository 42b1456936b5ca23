// Package normalizer converts raw source candidates into canonical event
// records: synthetic IDs, ISO dates, keyword categorization and free-price
// detection. Normalization is pure except for ID generation.
package normalizer

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dohaevents/internal/models/domain"

	"github.com/google/uuid"
)

const (
	// DefaultLocation is used when a source provides no venue.
	DefaultLocation = "Doha, Qatar"
	// DefaultPrice is the price text for sources that do not publish one.
	DefaultPrice = "Check website"
)

var (
	dayMonthYearRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe        = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// freeFormLayouts are tried in order when a date is neither ISO nor
// numeric day-month-year.
var freeFormLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// categoryKeywords is ordered: the first group with a keyword hit wins.
var categoryKeywords = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryMusic, []string{"concert", "live", "music", "dj", "band", "orchestra"}},
	{domain.CategorySports, []string{"sport", "football", "marathon", "tennis", "golf", "race", "waterpark", "theme park"}},
	{domain.CategoryFood, []string{"food", "brunch", "dinner", "restaurant", "culinary", "chef"}},
	{domain.CategoryFestival, []string{"festival", "celebration", "carnival"}},
	{domain.CategoryArts, []string{"art", "exhibition", "museum", "gallery", "theater", "theatre", "comedy", "cinema"}},
}

// Normalize converts a candidate into a canonical event record. It
// returns false when the candidate has no usable title; every other
// defect degrades to a default or an empty field (an empty date is
// rejected later, at merge admission).
func Normalize(c domain.Candidate) (domain.Event, bool) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return domain.Event{}, false
	}

	date := NormalizeDate(c.Date)
	endDate := NormalizeDate(c.EndDate)
	if endDate != "" && date != "" && endDate < date {
		endDate = ""
	}

	clock := strings.TrimSpace(c.Time)
	if !clockRe.MatchString(clock) {
		clock = ""
	}

	category := c.Category
	if category == "" {
		category = Categorize(title + " " + c.Description)
	}

	location := strings.TrimSpace(c.Location)
	if location == "" {
		location = DefaultLocation
	}

	price := strings.TrimSpace(c.Price)
	isFree := IsFreePrice(price)
	if price == "" {
		price = DefaultPrice
	}

	description := strings.TrimSpace(c.Description)
	if description == "" {
		description = title
	}

	link := c.URL
	if link == "" {
		link = SearchURL(title)
	}

	return domain.Event{
		ID:          NewID(),
		Title:       title,
		Date:        date,
		EndDate:     endDate,
		Time:        clock,
		Location:    location,
		Category:    category,
		IsFree:      isFree,
		Price:       price,
		Description: description,
		URL:         link,
		Source:      c.Source,
	}, true
}

// NormalizeDate coerces a date string into ISO YYYY-MM-DD. A strict
// numeric day-month-year pattern is tried first, then ISO, then a set of
// free-form layouts. Unparseable input yields "".
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if m := dayMonthYearRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if int(t.Month()) != month || t.Day() != day {
			return ""
		}
		return t.Format("2006-01-02")
	}

	if isoDateRe.MatchString(s) {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.Format("2006-01-02")
		}
		return ""
	}

	for _, layout := range freeFormLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return ""
}

// Categorize classifies free text against the ordered keyword groups.
func Categorize(text string) domain.Category {
	text = strings.ToLower(text)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.category
			}
		}
	}
	return domain.CategoryOther
}

// IsFreePrice reports whether price text is explicit free-of-charge
// evidence. Anything else, including an empty price, counts as paid.
func IsFreePrice(price string) bool {
	p := strings.ToLower(strings.TrimSpace(price))
	if p == "" {
		return false
	}
	return strings.Contains(p, "free") || p == "0" || p == "qar 0"
}

// SearchURL builds the fallback link for events without a direct listing
// page: a search-engine query scoped to Doha.
func SearchURL(title string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(title+" Doha")
}

// NewID mints an opaque event identifier. IDs are never reused; the
// evt_ prefix matches the records already in the curated file.
func NewID() string {
	return fmt.Sprintf("evt_%s", uuid.NewString())
}
