package models

// Booking workflow statuses, in pipeline order.
const (
	StatusContacted  = "contacted"
	StatusAgreed     = "agreed"
	StatusConfirmed  = "confirmed"
	StatusSampleSent = "sample_sent"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// StatusFlow is the ordered pipeline. Cancelled is terminal and reachable
// from any step, so it is not part of the flow.
var StatusFlow = []string{
	StatusContacted,
	StatusAgreed,
	StatusConfirmed,
	StatusSampleSent,
	StatusCompleted,
}

const (
	PaymentUnpaid    = "unpaid"
	PaymentDeposited = "deposited"
	PaymentPaid      = "paid"
)

const (
	PlatformFacebook  = "facebook"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformInstagram = "instagram"
	PlatformBlog      = "blog"
	PlatformNewspaper = "newspaper"
	PlatformOther     = "other"
)

const (
	FormatVideo      = "video"
	FormatLivestream = "livestream"
	FormatPost       = "post"
	FormatStory      = "story"
	FormatArticle    = "article"
)

const (
	TypeSeeding      = "seeding"
	TypePress        = "press"
	TypeVideo        = "video"
	TypeLivestream   = "livestream"
	TypeViral        = "viral"
	TypeProfessional = "professional"
	TypeCustom       = "custom"
)

const (
	CampaignPlanned   = "planned"
	CampaignActive    = "active"
	CampaignCompleted = "completed"
)

const (
	// DefaultSessionTTL время жизни сессии в Redis
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// TopProductsLimit сколько продуктов попадает в рейтинг дашборда
	TopProductsLimit = 5

	// TopCampaignsLimit сколько кампаний попадает в сравнение бюджетов
	TopCampaignsLimit = 7

	// UnassignedPIC метка для бронирований без ответственного
	UnassignedPIC = "unassigned"

	// WorkerQueueSize размер очереди воркера синхронизации
	WorkerQueueSize = 1000

	// SheetsCacheTTL время жизни кэша строк Google Sheets
	SheetsCacheTTL = 60 * 60 // 1 час в секундах
)

var validStatuses = map[string]bool{
	StatusContacted:  true,
	StatusAgreed:     true,
	StatusConfirmed:  true,
	StatusSampleSent: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// ValidStatus reports whether s is a known workflow status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

var validPaymentStatuses = map[string]bool{
	PaymentUnpaid:    true,
	PaymentDeposited: true,
	PaymentPaid:      true,
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return validPaymentStatuses[s]
}
