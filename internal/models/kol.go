package models

// KOLProfile is an entry in the agency's contact library. Its lifecycle is
// independent from bookings that embed a snapshot of it.
type KOLProfile struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"owner_id"`
	Name      string   `json:"name"`
	ChannelID string   `json:"channel_id"`
	Platform  string   `json:"platform"`
	Followers int64    `json:"followers"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	RateCard  int64    `json:"rate_card,omitempty"`
	AvgViews  int64    `json:"avg_views,omitempty"`
	Rating    int      `json:"rating,omitempty"` // 1-5
	Tags      []string `json:"tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Snapshot copies the contact fields into the form embedded in a booking.
func (k *KOLProfile) Snapshot() KOLInfo {
	return KOLInfo{
		ProfileID: k.ID,
		Name:      k.Name,
		ChannelID: k.ChannelID,
		Followers: k.Followers,
		Phone:     k.Phone,
		Address:   k.Address,
	}
}
