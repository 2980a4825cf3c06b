package models

// KOLInfo is the contact snapshot embedded into a booking. It is copied from
// the KOL library at selection time and never updated retroactively.
type KOLInfo struct {
	ProfileID  string `json:"profile_id,omitempty"`
	Name       string `json:"name"`
	ChannelID  string `json:"channel_id"`
	WriterName string `json:"writer_name,omitempty"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Followers  int64  `json:"followers"`
}

// Performance holds raw engagement numbers plus the derived unit costs.
type Performance struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	CPV      int64 `json:"cpv"`
	CPE      int64 `json:"cpe"`
}

// Engagement is the denominator of CPE.
func (p Performance) Engagement() int64 {
	return p.Likes + p.Comments + p.Shares
}

type Booking struct {
	ID            string      `json:"id"`
	OwnerID       string      `json:"owner_id"`
	CampaignName  string      `json:"campaign_name"` // join key to Campaign.Name
	ProductName   string      `json:"product_name"`
	KOL           KOLInfo     `json:"kol"`
	Cost          int64       `json:"cost"`
	Deposit       int64       `json:"deposit"`
	PaymentStatus string      `json:"payment_status"` // unpaid, deposited, paid
	Content       string      `json:"content"`
	PIC           string      `json:"pic"`
	Platform      string      `json:"platform"`
	Format        string      `json:"format"`
	Type          string      `json:"type"`
	Status        string      `json:"status"` // contacted, agreed, confirmed, sample_sent, completed, cancelled
	StartDate     string      `json:"start_date"`         // YYYY-MM-DD
	AirDate       string      `json:"air_date,omitempty"` // YYYY-MM-DD
	PostLink      string      `json:"post_link,omitempty"`
	Note          string      `json:"note,omitempty"`
	Performance   Performance `json:"performance"`
	CreatedAt     int64       `json:"created_at"` // unix millis, default sort key
}

// Balance is cost minus deposit. Deposit exceeding cost is not rejected,
// so the balance may go negative.
func (b *Booking) Balance() int64 {
	return b.Cost - b.Deposit
}
