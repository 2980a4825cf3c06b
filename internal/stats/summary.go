// Package stats computes the derived metrics and the dashboard summaries
// from in-memory booking and campaign collections.
package stats

import (
	"math"
	"sort"

	"kolbook/internal/models"
)

// Bucket is one aggregation row: a label plus cost and count totals.
type Bucket struct {
	Name  string `json:"name"`
	Cost  int64  `json:"cost"`
	Count int    `json:"count"`
}

// FunnelStep is one workflow status with its share of the filtered set.
type FunnelStep struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// CampaignSpend compares a campaign's budget against realized bookings.
type CampaignSpend struct {
	Name   string `json:"name"`
	Budget int64  `json:"budget"`
	Spent  int64  `json:"spent"`
}

// Summary is everything a dashboard render needs.
type Summary struct {
	TotalBookings  int             `json:"total_bookings"`
	QuotedCost     int64           `json:"quoted_cost"` // committed but unrealized
	SpentCost      int64           `json:"spent_cost"`  // completed only
	Completed      int             `json:"completed"`
	CompletionRate int             `json:"completion_rate"` // whole percent
	Timeline       []Bucket        `json:"timeline"`
	Platforms      []Bucket        `json:"platforms"`
	TopProducts    []Bucket        `json:"top_products"`
	Funnel         []FunnelStep    `json:"funnel"`
	PICWorkload    []Bucket        `json:"pic_workload"`
	Campaigns      []CampaignSpend `json:"campaigns"`
}

// Summarize aggregates the filtered bookings into the six dashboard reports.
// The campaign budget comparison deliberately runs over allBookings, not the
// filtered view, so campaign totals stay meaningful under any filter.
func Summarize(filtered, allBookings []*models.Booking, campaigns []*models.Campaign) *Summary {
	s := &Summary{TotalBookings: len(filtered)}

	for _, b := range filtered {
		switch b.Status {
		case models.StatusCompleted:
			s.SpentCost += b.Cost
			s.Completed++
		case models.StatusCancelled:
			// Cancelled spend counts toward neither headline.
		default:
			s.QuotedCost += b.Cost
		}
	}
	if s.TotalBookings > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.TotalBookings) * 100))
	}

	s.Timeline = timeline(filtered)
	s.Platforms = platformCounts(filtered)
	s.TopProducts = topProducts(filtered)
	s.Funnel = funnel(filtered)
	s.PICWorkload = picWorkload(filtered)
	s.Campaigns = campaignSpend(allBookings, campaigns)
	return s
}

// timeline groups by the year-month prefix of the start date. Lexicographic
// order of ISO prefixes is chronological.
func timeline(bookings []*models.Booking) []Bucket {
	byMonth := make(map[string]*Bucket)
	for _, b := range bookings {
		if len(b.StartDate) < 7 {
			continue
		}
		month := b.StartDate[:7]
		bucket, ok := byMonth[month]
		if !ok {
			bucket = &Bucket{Name: month}
			byMonth[month] = bucket
		}
		bucket.Cost += b.Cost
		bucket.Count++
	}
	out := collect(byMonth)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func platformCounts(bookings []*models.Booking) []Bucket {
	byPlatform := make(map[string]*Bucket)
	for _, b := range bookings {
		bucket, ok := byPlatform[b.Platform]
		if !ok {
			bucket = &Bucket{Name: b.Platform}
			byPlatform[b.Platform] = bucket
		}
		bucket.Count++
	}
	out := collect(byPlatform)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func topProducts(bookings []*models.Booking) []Bucket {
	byProduct := make(map[string]*Bucket)
	for _, b := range bookings {
		name := b.ProductName
		if name == "" {
			name = "N/A"
		}
		bucket, ok := byProduct[name]
		if !ok {
			bucket = &Bucket{Name: name}
			byProduct[name] = bucket
		}
		bucket.Cost += b.Cost
		bucket.Count++
	}
	out := collect(byProduct)
	sort.Slice(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	if len(out) > models.TopProductsLimit {
		out = out[:models.TopProductsLimit]
	}
	return out
}

// funnel counts the five pipeline statuses in fixed order. Cancelled is
// excluded by design, so percentages sum to at most 100.
func funnel(bookings []*models.Booking) []FunnelStep {
	counts := make(map[string]int)
	for _, b := range bookings {
		counts[b.Status]++
	}
	total := len(bookings)
	steps := make([]FunnelStep, 0, len(models.StatusFlow))
	for _, status := range models.StatusFlow {
		step := FunnelStep{Status: status, Count: counts[status]}
		if total > 0 {
			step.Percent = float64(counts[status]) / float64(total) * 100
		}
		steps = append(steps, step)
	}
	return steps
}

func picWorkload(bookings []*models.Booking) []Bucket {
	byPIC := make(map[string]*Bucket)
	for _, b := range bookings {
		name := b.PIC
		if name == "" {
			name = models.UnassignedPIC
		}
		bucket, ok := byPIC[name]
		if !ok {
			bucket = &Bucket{Name: name}
			byPIC[name] = bucket
		}
		bucket.Count++
		bucket.Cost += b.Cost
	}
	out := collect(byPIC)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func campaignSpend(allBookings []*models.Booking, campaigns []*models.Campaign) []CampaignSpend {
	spentByName := make(map[string]int64)
	for _, b := range allBookings {
		spentByName[b.CampaignName] += b.Cost
	}
	out := make([]CampaignSpend, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, CampaignSpend{Name: c.Name, Budget: c.Budget, Spent: spentByName[c.Name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Spent > out[j].Spent })
	if len(out) > models.TopCampaignsLimit {
		out = out[:models.TopCampaignsLimit]
	}
	return out
}

func collect(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	return out
}
