package models

type Campaign struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"` // bookings reference campaigns by this name
	Target      string `json:"target"`
	Budget      int64  `json:"budget"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`   // YYYY-MM-DD
	Status      string `json:"status"`     // planned, active, completed
	Description string `json:"description,omitempty"`
}
