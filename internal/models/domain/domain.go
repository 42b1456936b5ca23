package domain

// Category is the fixed taxonomy the calendar UI filters on.
// "free" is a derived display flag (Event.IsFree), not a stored category.
type Category string

const (
	CategoryMusic    Category = "music"
	CategorySports   Category = "sports"
	CategoryFood     Category = "food"
	CategoryFestival Category = "festival"
	CategoryArts     Category = "arts"
	CategoryOther    Category = "other"
)

// Event is the canonical persisted record, shaped exactly like the
// entries of events.json consumed by the web UI.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"` // ISO YYYY-MM-DD, required for persistence
	EndDate     string   `json:"endDate,omitempty"`
	Time        string   `json:"time,omitempty"` // HH:MM local, empty when unknown
	Location    string   `json:"location"`
	Category    Category `json:"category"`
	IsFree      bool     `json:"isFree"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
}

// EffectiveEnd is the date the event stops being current: EndDate for
// multi-day events, Date otherwise. ISO dates compare lexicographically.
func (e Event) EffectiveEnd() string {
	if e.EndDate != "" {
		return e.EndDate
	}
	return e.Date
}

// Candidate is a raw record produced by a source adapter before
// normalization. Date fields are free-text in whatever form the source
// used; Category may be pre-mapped by an adapter or left empty for the
// normalizer's keyword heuristics.
type Candidate struct {
	Title       string
	Date        string
	EndDate     string
	Time        string
	Location    string
	Category    Category
	Price       string
	Description string
	URL         string
	Source      string
}

// SourceInfo is the typed view of one entry of the persisted "sources"
// directory. The pipeline never rewrites the directory; this type exists
// for reporting only.
type SourceInfo struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
