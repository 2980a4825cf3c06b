package google

import (
	"os"
	"path/filepath"
	"testing"

	"kolbook/internal/models"
)

func TestBookingRowValues(t *testing.T) {
	booking := &models.Booking{
		CampaignName:  "Tet Sale",
		ProductName:   "Lip Tint",
		KOL:           models.KOLInfo{Name: "Mai Beauty", ChannelID: "@maibeauty", Followers: 120000},
		Platform:      "tiktok",
		Format:        "video",
		Cost:          40000000,
		Deposit:       10000000,
		PaymentStatus: "deposited",
		Status:        "confirmed",
		PIC:           "Ngoc",
		StartDate:     "2026-01-10",
		AirDate:       "2026-01-20",
		PostLink:      "https://tiktok.com/@maibeauty/video/1",
	}

	values := bookingRowValues(booking)
	header := bookingsHeader()

	if len(values) != len(header) {
		t.Fatalf("Expected %d values to match header, got %d", len(header), len(values))
	}

	expected := []interface{}{
		"Tet Sale", "Lip Tint", "Mai Beauty", "@maibeauty", int64(120000),
		"tiktok", "video", int64(40000000), int64(10000000), "deposited",
		"confirmed", "Ngoc", "2026-01-10", "2026-01-20", "https://tiktok.com/@maibeauty/video/1",
	}
	for i, v := range values {
		if v != expected[i] {
			t.Errorf("At index %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestCampaignRowValues(t *testing.T) {
	campaign := &models.Campaign{
		Name:      "Tet Sale",
		Target:    "GenZ",
		Budget:    100000000,
		StartDate: "2026-01-01",
		EndDate:   "2026-02-01",
		Status:    "active",
	}

	values := campaignRowValues(campaign, 40000000)

	if len(values) != len(campaignsHeader()) {
		t.Fatalf("Expected %d values, got %d", len(campaignsHeader()), len(values))
	}
	if values[3] != int64(40000000) {
		t.Errorf("Expected spent 40000000, got %v", values[3])
	}
	if values[4] != int64(60000000) {
		t.Errorf("Expected remaining 60000000, got %v", values[4])
	}
}

func TestGetServiceAccountEmail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creds.json")
	if err := os.WriteFile(path, []byte(`{"client_email":"svc@project.iam.gserviceaccount.com"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s := &SheetsService{}
	email, err := s.GetServiceAccountEmail(path)
	if err != nil {
		t.Fatalf("GetServiceAccountEmail failed: %v", err)
	}
	if email != "svc@project.iam.gserviceaccount.com" {
		t.Errorf("Unexpected email: %s", email)
	}

	if _, err := s.GetServiceAccountEmail(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}
