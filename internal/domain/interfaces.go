package domain

import (
	"context"

	"kolbook/internal/models"
)

// Store is the persistence gateway consumed by the services: owner-scoped
// CRUD over the three collections, full-record replaces only.
type Store interface {
	ListBookings(ctx context.Context, ownerID string) ([]*models.Booking, error)
	GetBooking(ctx context.Context, ownerID, id string) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	ReplaceBooking(ctx context.Context, booking *models.Booking) error
	DeleteBooking(ctx context.Context, ownerID, id string) error

	ListKOLs(ctx context.Context, ownerID string) ([]*models.KOLProfile, error)
	GetKOL(ctx context.Context, ownerID, id string) (*models.KOLProfile, error)
	CreateKOL(ctx context.Context, kol *models.KOLProfile) error
	ReplaceKOL(ctx context.Context, kol *models.KOLProfile) error
	DeleteKOL(ctx context.Context, ownerID, id string) error

	ListCampaigns(ctx context.Context, ownerID string) ([]*models.Campaign, error)
	GetCampaign(ctx context.Context, ownerID, id string) (*models.Campaign, error)
	GetCampaignByName(ctx context.Context, ownerID, name string) (*models.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error
	ReplaceCampaign(ctx context.Context, campaign *models.Campaign) error
	DeleteCampaign(ctx context.Context, ownerID, id string) error
}

// UserStore covers the accounts table used by the identity gateway.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserActivity(ctx context.Context, id string) error
}

// SessionRepository stores opaque session tokens with a TTL.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, token string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker schedules a sheet mirror refresh for one owner.
type SyncWorker interface {
	EnqueueSync(ctx context.Context, ownerID string)
}

// SheetsWriter mirrors the booking list into a spreadsheet.
type SheetsWriter interface {
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error
	UpdateCampaignsSheet(ctx context.Context, campaigns []*models.Campaign, spentByName map[string]int64) error
}

// BriefGenerator produces content suggestions; implementations must degrade
// to a fallback string rather than fail.
type BriefGenerator interface {
	GenerateBrief(ctx context.Context, booking *models.Booking) (string, error)
	AnalyzeBookings(ctx context.Context, bookings []*models.Booking) (string, error)
}
