// Package allocation turns a combo deal (one KOL, one campaign, one combined
// price, N deliverables) into N independent booking records whose costs and
// deposits sum back to the package totals exactly.
package allocation

import (
	"errors"
	"fmt"
	"time"

	"kolbook/internal/models"
)

var (
	ErrNoItems        = errors.New("combo must contain at least one item")
	ErrNoCampaign     = errors.New("campaign is required")
	ErrNoKOL          = errors.New("kol name is required")
	ErrNegativeAmount = errors.New("cost and deposit must be non-negative")
)

// Item is one deliverable inside a combo package.
type Item struct {
	ProductName string `json:"product_name"`
	Format      string `json:"format"`
	AirDate     string `json:"air_date,omitempty"`
	Note        string `json:"note,omitempty"`
}

// Draft carries the fields shared by every booking in the batch.
type Draft struct {
	CampaignName  string             `json:"campaign_name"`
	KOL           models.KOLInfo     `json:"kol"`
	PaymentStatus string             `json:"payment_status"`
	Content       string             `json:"content"`
	PIC           string             `json:"pic"`
	Platform      string             `json:"platform"`
	Type          string             `json:"type"`
	Status        string             `json:"status"`
	StartDate     string             `json:"start_date"`
	Performance   models.Performance `json:"performance"`
}

// Split divides total across n items: everyone gets total/n, the first item
// additionally absorbs the remainder so the shares sum to total exactly.
func Split(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := total / int64(n)
	out := make([]int64, n)
	for i := range out {
		out[i] = base
	}
	out[0] += total % int64(n)
	return out
}

// BuildCombo validates the draft once, then produces one booking per item.
// CreatedAt is assigned as base+index millis so the batch has a strict,
// unique ordering. No I/O happens here; callers persist the result.
func BuildCombo(draft Draft, items []Item, totalCost, totalDeposit int64, base time.Time) ([]*models.Booking, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if draft.CampaignName == "" {
		return nil, ErrNoCampaign
	}
	if draft.KOL.Name == "" {
		return nil, ErrNoKOL
	}
	if totalCost < 0 || totalDeposit < 0 {
		return nil, ErrNegativeAmount
	}
	if draft.Status == "" {
		draft.Status = models.StatusContacted
	}
	if !models.ValidStatus(draft.Status) {
		return nil, fmt.Errorf("unknown status %q", draft.Status)
	}

	costs := Split(totalCost, len(items))
	deposits := Split(totalDeposit, len(items))
	baseMillis := base.UnixMilli()

	bookings := make([]*models.Booking, 0, len(items))
	for i, item := range items {
		bookings = append(bookings, &models.Booking{
			CampaignName:  draft.CampaignName,
			ProductName:   item.ProductName,
			KOL:           draft.KOL,
			Cost:          costs[i],
			Deposit:       deposits[i],
			PaymentStatus: draft.PaymentStatus,
			Content:       draft.Content,
			PIC:           draft.PIC,
			Platform:      draft.Platform,
			Format:        item.Format,
			Type:          draft.Type,
			Status:        draft.Status,
			StartDate:     draft.StartDate,
			AirDate:       item.AirDate,
			Note:          item.Note,
			Performance:   draft.Performance,
			CreatedAt:     baseMillis + int64(i),
		})
	}
	return bookings, nil
}
