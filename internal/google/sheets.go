package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"kolbook/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService mirrors the booking list into a shared spreadsheet the
// account managers already live in. The sheet is replaced wholesale on every
// sync; it is a read-only mirror, never a source of truth.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// TestConnection проверяет подключение к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Bookings!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта
func (s *SheetsService) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}

	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// ReplaceBookingsSheet полностью перезаписывает лист с заявками
func (s *SheetsService) ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error {
	clearRange := "Bookings!A1:Z"
	clearReq := &sheets.ClearValuesRequest{}

	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, clearReq).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear bookings sheet: %v", err)
	}

	values := [][]interface{}{bookingsHeader()}
	for _, b := range bookings {
		values = append(values, bookingRowValues(b))
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, "Bookings!A1", valueRange).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update bookings sheet: %v", err)
	}

	return nil
}

// UpdateCampaignsSheet перезаписывает сводку бюджетов по кампаниям
func (s *SheetsService) UpdateCampaignsSheet(ctx context.Context, campaigns []*models.Campaign, spentByName map[string]int64) error {
	clearRange := "Campaigns!A1:Z"
	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear campaigns sheet: %v", err)
	}

	values := [][]interface{}{campaignsHeader()}
	for _, c := range campaigns {
		values = append(values, campaignRowValues(c, spentByName[c.Name]))
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, "Campaigns!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update campaigns sheet: %v", err)
	}

	return nil
}

func bookingsHeader() []interface{} {
	return []interface{}{
		"Campaign", "Product", "KOL", "Channel", "Followers", "Platform", "Format",
		"Cost", "Deposit", "Payment", "Status", "PIC", "Start Date", "Air Date", "Link",
	}
}

func bookingRowValues(b *models.Booking) []interface{} {
	return []interface{}{
		b.CampaignName,
		b.ProductName,
		b.KOL.Name,
		b.KOL.ChannelID,
		b.KOL.Followers,
		b.Platform,
		b.Format,
		b.Cost,
		b.Deposit,
		b.PaymentStatus,
		b.Status,
		b.PIC,
		b.StartDate,
		b.AirDate,
		b.PostLink,
	}
}

func campaignsHeader() []interface{} {
	return []interface{}{"Campaign", "Target", "Budget", "Spent", "Remaining", "Start", "End", "Status"}
}

func campaignRowValues(c *models.Campaign, spent int64) []interface{} {
	return []interface{}{
		c.Name,
		c.Target,
		c.Budget,
		spent,
		c.Budget - spent,
		c.StartDate,
		c.EndDate,
		c.Status,
	}
}
