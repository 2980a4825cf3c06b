// Package query implements the in-memory filter, search and sort engine
// behind the booking list and the dashboard. All functions are pure: inputs
// are never mutated and results are fresh slices.
package query

import (
	"sort"
	"strings"

	"kolbook/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter narrows the booking collection. The free-text search is OR-ed over
// campaign name, KOL name, content and product name, then AND-ed with every
// exact filter. Empty string means "any"; nil cost bounds are open-ended.
type Filter struct {
	Search   string `json:"search"`
	Campaign string `json:"campaign"`
	Product  string `json:"product"`
	Platform string `json:"platform"`
	Type     string `json:"type"`
	PIC      string `json:"pic"`
	Status   string `json:"status"`
	CostMin  *int64 `json:"cost_min"`
	CostMax  *int64 `json:"cost_max"`
}

// Matches reports whether a single booking passes the filter.
func (f Filter) Matches(b *models.Booking) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.CampaignName), term) &&
			!strings.Contains(strings.ToLower(b.KOL.Name), term) &&
			!strings.Contains(strings.ToLower(b.Content), term) &&
			!strings.Contains(strings.ToLower(b.ProductName), term) {
			return false
		}
	}
	if f.Campaign != "" && b.CampaignName != f.Campaign {
		return false
	}
	if f.Product != "" && b.ProductName != f.Product {
		return false
	}
	if f.Platform != "" && b.Platform != f.Platform {
		return false
	}
	if f.Type != "" && b.Type != f.Type {
		return false
	}
	if f.PIC != "" && b.PIC != f.PIC {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.CostMin != nil && b.Cost < *f.CostMin {
		return false
	}
	if f.CostMax != nil && b.Cost > *f.CostMax {
		return false
	}
	return true
}

// Apply returns the matching subset in input order.
func (f Filter) Apply(bookings []*models.Booking) []*models.Booking {
	out := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// Sort keys. kol.name and kol.followers reach into the embedded snapshot.
const (
	KeyCreatedAt    = "created_at"
	KeyCampaignName = "campaign_name"
	KeyProductName  = "product_name"
	KeyKOLName      = "kol.name"
	KeyKOLFollowers = "kol.followers"
	KeyCost         = "cost"
	KeyDeposit      = "deposit"
	KeyStatus       = "status"
	KeyPlatform     = "platform"
	KeyPIC          = "pic"
	KeyStartDate    = "start_date"
	KeyAirDate      = "air_date"
)

// SortSpec selects one key and a direction.
type SortSpec struct {
	Key  string `json:"key"`
	Desc bool   `json:"desc"`
}

// DefaultSort is newest-first, matching the persistence gateway's order.
func DefaultSort() SortSpec {
	return SortSpec{Key: KeyCreatedAt, Desc: true}
}

// Toggle flips direction when the key is already active and starts a fresh
// ascending sort otherwise.
func (s SortSpec) Toggle(key string) SortSpec {
	if s.Key == key {
		return SortSpec{Key: key, Desc: !s.Desc}
	}
	return SortSpec{Key: key, Desc: false}
}

// SortBookings returns a sorted copy. Strings compare with Vietnamese
// collation, numbers ordinarily. Stability for equal keys is not guaranteed.
func SortBookings(bookings []*models.Booking, spec SortSpec) []*models.Booking {
	out := make([]*models.Booking, len(bookings))
	copy(out, bookings)

	coll := collate.New(language.Vietnamese)
	sort.Slice(out, func(i, j int) bool {
		c := compare(out[i], out[j], spec.Key, coll)
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compare(a, b *models.Booking, key string, coll *collate.Collator) int {
	switch key {
	case KeyCost:
		return compareInt64(a.Cost, b.Cost)
	case KeyDeposit:
		return compareInt64(a.Deposit, b.Deposit)
	case KeyKOLFollowers:
		return compareInt64(a.KOL.Followers, b.KOL.Followers)
	case KeyKOLName:
		return coll.CompareString(a.KOL.Name, b.KOL.Name)
	case KeyCampaignName:
		return coll.CompareString(a.CampaignName, b.CampaignName)
	case KeyProductName:
		return coll.CompareString(a.ProductName, b.ProductName)
	case KeyStatus:
		return coll.CompareString(a.Status, b.Status)
	case KeyPlatform:
		return coll.CompareString(a.Platform, b.Platform)
	case KeyPIC:
		return coll.CompareString(a.PIC, b.PIC)
	case KeyStartDate:
		return strings.Compare(a.StartDate, b.StartDate)
	case KeyAirDate:
		return strings.Compare(a.AirDate, b.AirDate)
	default:
		return compareInt64(a.CreatedAt, b.CreatedAt)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DashboardFilter is the reporting view's narrower filter: a date window on
// the start date plus exact campaign/product/platform matches.
type DashboardFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Campaign  string `json:"campaign"`
	Product   string `json:"product"`
	Platform  string `json:"platform"`
}

// Apply returns the subset inside the window. ISO dates compare as strings.
func (f DashboardFilter) Apply(bookings []*models.Booking) []*models.Booking {
	out := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.StartDate != "" && b.StartDate < f.StartDate {
			continue
		}
		if f.EndDate != "" && b.StartDate > f.EndDate {
			continue
		}
		if f.Campaign != "" && b.CampaignName != f.Campaign {
			continue
		}
		if f.Product != "" && b.ProductName != f.Product {
			continue
		}
		if f.Platform != "" && b.Platform != f.Platform {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SearchKOLs matches the library by name, channel id or tag substring.
func SearchKOLs(kols []*models.KOLProfile, term string) []*models.KOLProfile {
	if term == "" {
		out := make([]*models.KOLProfile, len(kols))
		copy(out, kols)
		return out
	}
	term = strings.ToLower(term)
	out := make([]*models.KOLProfile, 0, len(kols))
	for _, k := range kols {
		if strings.Contains(strings.ToLower(k.Name), term) ||
			strings.Contains(strings.ToLower(k.ChannelID), term) ||
			tagMatches(k.Tags, term) {
			out = append(out, k)
		}
	}
	return out
}

func tagMatches(tags []string, term string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

// UniqueValues collects the distinct non-empty values of a booking field, in
// first-seen order. Feeds the filter dropdowns.
func UniqueValues(bookings []*models.Booking, get func(*models.Booking) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range bookings {
		v := get(b)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// CalendarDate is the day a booking occupies on the calendar: the air date
// when set, the start date otherwise.
func CalendarDate(b *models.Booking) string {
	if b.AirDate != "" {
		return b.AirDate
	}
	return b.StartDate
}

// CalendarDay is one dated bucket of the monthly calendar.
type CalendarDay struct {
	Date     string            `json:"date"`
	Bookings []*models.Booking `json:"bookings"`
}

// GroupByDay buckets the bookings falling inside month ("YYYY-MM") by their
// calendar date, days ascending. Bookings without any date are skipped.
func GroupByDay(bookings []*models.Booking, month string) []CalendarDay {
	byDate := make(map[string][]*models.Booking)
	for _, b := range bookings {
		date := CalendarDate(b)
		if date == "" || !strings.HasPrefix(date, month+"-") {
			continue
		}
		byDate[date] = append(byDate[date], b)
	}

	days := make([]CalendarDay, 0, len(byDate))
	for date, list := range byDate {
		days = append(days, CalendarDay{Date: date, Bookings: list})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
