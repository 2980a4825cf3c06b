package export

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"testing"

	"kolbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportBooking() *models.Booking {
	return &models.Booking{
		CampaignName: "Tet Sale",
		ProductName:  "Son kem lì",
		KOL:          models.KOLInfo{Name: "Mai Beauty", ChannelID: "@maibeauty", Followers: 120000},
		Cost:         40000000,
		Deposit:      10000000,
		Platform:     models.PlatformTikTok,
		Format:       models.FormatVideo,
		Status:       models.StatusConfirmed,
		StartDate:    "2026-01-10",
		AirDate:      "2026-01-20",
		PostLink:     "https://tiktok.com/@maibeauty/video/1",
		Performance:  models.Performance{Views: 100000, Likes: 400, CPV: 400},
	}
}

func TestWriteCSV(t *testing.T) {
	data := WriteCSV([]*models.Booking{exportBooking()})

	t.Run("StartsWithBOM", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(string(data), utf8BOM))
	})

	t.Run("RowsAndColumns", func(t *testing.T) {
		r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
		records, err := r.ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Len(t, records[0], 10)
		assert.Equal(t, "Campaign", records[0][0])
		assert.Equal(t, "Son kem lì", records[1][1])
		assert.Equal(t, "120000", records[1][3])
		assert.Equal(t, "40000000", records[1][5])
	})

	t.Run("TextColumnsAlwaysQuoted", func(t *testing.T) {
		lines := strings.Split(strings.TrimPrefix(string(data), utf8BOM), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t,
			`"Tet Sale","Son kem lì","Mai Beauty",120000,tiktok,40000000,"confirmed",2026-01-10,2026-01-20,"https://tiktok.com/@maibeauty/video/1"`,
			lines[1])
	})

	t.Run("InnerQuotesDoubled", func(t *testing.T) {
		b := exportBooking()
		b.ProductName = `Son "lì" 2.0`
		data := WriteCSV([]*models.Booking{b})

		r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
		records, err := r.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, `Son "lì" 2.0`, records[1][1])
	})

	t.Run("EmptyFieldsStayEmpty", func(t *testing.T) {
		b := exportBooking()
		b.AirDate = ""
		b.PostLink = ""
		data := WriteCSV([]*models.Booking{b})

		r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
		records, err := r.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, "", records[1][8])
		assert.Equal(t, "", records[1][9])
	})

	t.Run("PreservesOrder", func(t *testing.T) {
		first := exportBooking()
		first.KOL.Name = "Zed"
		second := exportBooking()
		second.KOL.Name = "An"
		data := WriteCSV([]*models.Booking{first, second})

		r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
		records, err := r.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, "Zed", records[1][2])
		assert.Equal(t, "An", records[2][2])
	})
}

func TestCSVFilename(t *testing.T) {
	assert.Equal(t, "bookings_2026-01-10.csv", CSVFilename("2026-01-10"))
}

func TestExportBookingsExcel(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(io.Discard)
	exporter := NewExcelExporter(dir, &logger)

	campaigns := []*models.Campaign{
		{Name: "Tet Sale", Budget: 30000000, Status: models.CampaignActive},
	}
	spent := map[string]int64{"Tet Sale": 40000000}

	path, err := exporter.ExportBookings([]*models.Booking{exportBooking()}, campaigns, spent)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	t.Run("BookingRows", func(t *testing.T) {
		rows, err := f.GetRows("Bookings")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Campaign", rows[0][0])
		assert.Equal(t, "Mai Beauty", rows[1][2])
	})

	t.Run("CampaignSheet", func(t *testing.T) {
		rows, err := f.GetRows("Campaigns")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Tet Sale", rows[1][0])
		// Потрачено больше бюджета, остаток отрицательный
		assert.Equal(t, "-10000000", rows[1][4])
	})
}
