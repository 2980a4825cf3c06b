package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range StatusFlow {
		assert.True(t, ValidStatus(s), s)
	}
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus(""))
}

func TestValidPaymentStatus(t *testing.T) {
	assert.True(t, ValidPaymentStatus(PaymentUnpaid))
	assert.True(t, ValidPaymentStatus(PaymentDeposited))
	assert.True(t, ValidPaymentStatus(PaymentPaid))
	assert.False(t, ValidPaymentStatus("partial"))
}

func TestBookingBalance(t *testing.T) {
	b := &Booking{Cost: 100000, Deposit: 30000}
	assert.Equal(t, int64(70000), b.Balance())

	// Deposit above cost is not rejected anywhere, balance goes negative.
	b = &Booking{Cost: 100, Deposit: 150}
	assert.Equal(t, int64(-50), b.Balance())
}

func TestPerformanceEngagement(t *testing.T) {
	p := Performance{Likes: 10, Comments: 5, Shares: 2}
	assert.Equal(t, int64(17), p.Engagement())
}

func TestProfileSnapshot(t *testing.T) {
	k := &KOLProfile{
		ID:        "kol-1",
		Name:      "Linh Review",
		ChannelID: "@linhreview",
		Platform:  PlatformTikTok,
		Followers: 250000,
		Phone:     "0901234567",
		Address:   "HCMC",
		Rating:    4,
	}
	snap := k.Snapshot()
	assert.Equal(t, "kol-1", snap.ProfileID)
	assert.Equal(t, "Linh Review", snap.Name)
	assert.Equal(t, int64(250000), snap.Followers)
	// Rating and platform stay in the library, not in the snapshot.
	assert.Empty(t, snap.WriterName)
}
