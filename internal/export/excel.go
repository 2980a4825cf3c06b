package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kolbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelExporter writes booking and campaign workbooks to the export
// directory.
type ExcelExporter struct {
	path   string
	logger *zerolog.Logger
}

func NewExcelExporter(path string, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{
		path:   path,
		logger: logger,
	}
}

// ExportBookings writes one row per booking plus a campaign budget sheet.
func (e *ExcelExporter) ExportBookings(bookings []*models.Booking, campaigns []*models.Campaign, spentByName map[string]int64) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Campaign", "Product", "KOL", "Channel", "Followers", "Platform", "Format",
		"Cost", "Deposit", "Balance", "Payment", "Status", "PIC",
		"Start Date", "Air Date", "Views", "Likes", "Comments", "Shares", "CPV", "CPE", "Link",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.CampaignName, b.ProductName, b.KOL.Name, b.KOL.ChannelID, b.KOL.Followers,
			b.Platform, b.Format,
			b.Cost, b.Deposit, b.Balance(), b.PaymentStatus, b.Status, b.PIC,
			b.StartDate, b.AirDate,
			b.Performance.Views, b.Performance.Likes, b.Performance.Comments, b.Performance.Shares,
			b.Performance.CPV, b.Performance.CPE, b.PostLink,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "C", 22)
	_ = f.SetColWidth(sheetName, "D", "V", 14)

	e.writeCampaignSheet(f, campaigns, spentByName)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

func (e *ExcelExporter) writeCampaignSheet(f *excelize.File, campaigns []*models.Campaign, spentByName map[string]int64) {
	sheetName := "Campaigns"
	if _, err := f.NewSheet(sheetName); err != nil {
		return
	}

	headers := []string{"Campaign", "Target", "Budget", "Spent", "Remaining", "Start", "End", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	overStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})

	for i, c := range campaigns {
		row := i + 2
		spent := spentByName[c.Name]
		values := []interface{}{
			c.Name, c.Target, c.Budget, spent, c.Budget - spent, c.StartDate, c.EndDate, c.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		if spent > c.Budget {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(values), row)
			_ = f.SetCellStyle(sheetName, start, end, overStyle)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 22)
	_ = f.SetColWidth(sheetName, "C", "H", 15)
}
