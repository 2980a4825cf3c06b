// Package export renders the current booking view into downloadable files.
// The CSV writer mirrors what the user sees: it receives the already
// filtered and sorted slice and never re-queries.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"kolbook/internal/models"
)

// utf8BOM keeps Excel from misreading Vietnamese characters.
const utf8BOM = "\uFEFF"

var csvHeader = []string{
	"Campaign", "Product", "KOL", "Followers", "Platform",
	"Cost", "Status", "Start Date", "Air Date", "Link",
}

// quote wraps a text column in double quotes. Text columns are always
// quoted, whether they need it or not; numeric and date columns never are.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV renders bookings in their given order. Empty fields stay empty
// rather than being substituted.
func WriteCSV(bookings []*models.Booking) []byte {
	lines := make([]string, 0, len(bookings)+1)
	lines = append(lines, strings.Join(csvHeader, ","))

	for _, b := range bookings {
		fields := []string{
			quote(b.CampaignName),
			quote(b.ProductName),
			quote(b.KOL.Name),
			strconv.FormatInt(b.KOL.Followers, 10),
			b.Platform,
			strconv.FormatInt(b.Cost, 10),
			quote(b.Status),
			b.StartDate,
			b.AirDate,
			quote(b.PostLink),
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return []byte(utf8BOM + strings.Join(lines, "\n"))
}

// CSVFilename is the attachment name offered for a download started now.
func CSVFilename(date string) string {
	return fmt.Sprintf("bookings_%s.csv", date)
}
