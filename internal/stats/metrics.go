package stats

import (
	"math"

	"kolbook/internal/models"
)

// Recompute derives cost-per-view and cost-per-engagement from the complete
// current field set. Always called with all four raw counters so a change to
// any of them (shares included) lands in the derived values.
func Recompute(perf models.Performance, cost int64) models.Performance {
	if perf.Views > 0 {
		perf.CPV = int64(math.Round(float64(cost) / float64(perf.Views)))
	} else {
		perf.CPV = 0
	}
	if engagement := perf.Engagement(); engagement > 0 {
		perf.CPE = int64(math.Round(float64(cost) / float64(engagement)))
	} else {
		perf.CPE = 0
	}
	return perf
}

// BudgetContext is the live campaign budget picture shown while a booking is
// being edited.
type BudgetContext struct {
	Spent      int64 `json:"spent"`
	Remaining  int64 `json:"remaining"`
	OverBudget bool  `json:"over_budget"`
}

// CampaignBudget sums cost over bookings joined by campaign name, excluding
// the booking currently being edited so its old cost is not double-counted.
// draftCost is the cost as currently entered; overBudget is a warning only,
// saves are never rejected for it.
func CampaignBudget(campaign *models.Campaign, bookings []*models.Booking, excludeID string, draftCost int64) BudgetContext {
	var spent int64
	for _, b := range bookings {
		if b.CampaignName != campaign.Name || b.ID == excludeID {
			continue
		}
		spent += b.Cost
	}
	return BudgetContext{
		Spent:      spent,
		Remaining:  campaign.Budget - spent,
		OverBudget: spent+draftCost > campaign.Budget,
	}
}
