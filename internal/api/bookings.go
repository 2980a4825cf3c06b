package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"kolbook/internal/allocation"
	"kolbook/internal/export"
	"kolbook/internal/metrics"
	"kolbook/internal/models"
	"kolbook/internal/query"
)

// filterFromQuery maps list query params onto the filter engine.
func filterFromQuery(r *http.Request) query.Filter {
	q := r.URL.Query()
	f := query.Filter{
		Search:   q.Get("search"),
		Campaign: q.Get("campaign"),
		Product:  q.Get("product"),
		Platform: q.Get("platform"),
		Type:     q.Get("type"),
		PIC:      q.Get("pic"),
		Status:   q.Get("status"),
	}
	if raw := q.Get("cost_min"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.CostMin = &v
		}
	}
	if raw := q.Get("cost_max"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.CostMax = &v
		}
	}
	return f
}

func sortFromQuery(r *http.Request) query.SortSpec {
	spec := query.DefaultSort()
	if key := r.URL.Query().Get("sort"); key != "" {
		spec.Key = key
		spec.Desc = r.URL.Query().Get("desc") == "true"
	}
	return spec
}

// currentView loads the owner's bookings and applies the request's filter
// and sort, the same pipeline for the list, the export and the analysis.
func (s *HTTPServer) currentView(r *http.Request) ([]*models.Booking, error) {
	session := sessionFrom(r.Context())
	bookings, err := s.bookings.ListBookings(r.Context(), session.UserID)
	if err != nil {
		return nil, err
	}
	filtered := filterFromQuery(r).Apply(bookings)
	return query.SortBookings(filtered, sortFromQuery(r)), nil
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	all, err := s.bookings.ListBookings(r.Context(), session.UserID)
	if err != nil {
		writeReadError(w, err)
		return
	}

	filtered := filterFromQuery(r).Apply(all)
	sorted := query.SortBookings(filtered, sortFromQuery(r))

	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": sorted,
		"total":    len(sorted),
		"filters": map[string]any{
			"campaigns": query.UniqueValues(all, func(b *models.Booking) string { return b.CampaignName }),
			"products":  query.UniqueValues(all, func(b *models.Booking) string { return b.ProductName }),
			"pics":      query.UniqueValues(all, func(b *models.Booking) string { return b.PIC }),
		},
	})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var booking models.Booking
	if err := decodeJSON(r, &booking); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	booking.ID = ""
	booking.OwnerID = session.UserID

	if err := s.bookings.CreateBooking(r.Context(), &booking); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.AddBookingsCreated(1)
	writeJSON(w, http.StatusCreated, &booking)
}

// handleBookingByID also routes the per-booking brief subresource.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if sub == "brief" {
		s.handleBrief(w, r, id)
		return
	}
	if sub != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	session := sessionFrom(r.Context())
	switch r.Method {
	case http.MethodGet:
		booking, err := s.bookings.GetBooking(r.Context(), session.UserID, id)
		if err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)

	case http.MethodPut:
		var booking models.Booking
		if err := decodeJSON(r, &booking); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		booking.ID = id
		booking.OwnerID = session.UserID

		if err := s.bookings.UpdateBooking(r.Context(), &booking); err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &booking)

	case http.MethodDelete:
		if err := s.bookings.DeleteBooking(r.Context(), session.UserID, id); err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type comboRequest struct {
	Draft        allocation.Draft  `json:"draft"`
	Items        []allocation.Item `json:"items"`
	TotalCost    int64             `json:"total_cost"`
	TotalDeposit int64             `json:"total_deposit"`
}

func (s *HTTPServer) handleCombo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req comboRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session := sessionFrom(r.Context())
	bookings, err := s.bookings.CreateCombo(r.Context(), session.UserID, req.Draft, req.Items, req.TotalCost, req.TotalDeposit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.IncComboBatch()
	metrics.AddBookingsCreated(len(bookings))
	writeJSON(w, http.StatusCreated, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, err := s.currentView(r)
	if err != nil {
		writeReadError(w, err)
		return
	}

	data := export.WriteCSV(view)

	metrics.IncExport("csv")
	filename := export.CSVFilename(time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *HTTPServer) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exports == nil {
		writeError(w, http.StatusNotImplemented, "xlsx export is not configured")
		return
	}

	view, err := s.currentView(r)
	if err != nil {
		writeReadError(w, err)
		return
	}

	session := sessionFrom(r.Context())
	campaigns, err := s.campaigns.ListCampaigns(r.Context(), session.UserID)
	if err != nil {
		writeReadError(w, err)
		return
	}
	spent, err := s.campaigns.SpentByName(r.Context(), session.UserID)
	if err != nil {
		writeReadError(w, err)
		return
	}

	path, err := s.exports.ExportBookings(view, campaigns, spent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}

	metrics.IncExport("xlsx")
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// handleCalendar buckets the owner's bookings per day for one month, keyed
// by air date with start date as the fallback.
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month := r.URL.Query().Get("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	session := sessionFrom(r.Context())
	all, err := s.bookings.ListBookings(r.Context(), session.UserID)
	if err != nil {
		writeReadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month": month,
		"days":  query.GroupByDay(all, month),
	})
}

func (s *HTTPServer) handleBudgetContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	campaign := r.URL.Query().Get("campaign")
	if campaign == "" {
		writeError(w, http.StatusBadRequest, "campaign is required")
		return
	}
	excludeID := r.URL.Query().Get("exclude")
	cost, _ := strconv.ParseInt(r.URL.Query().Get("cost"), 10, 64)

	session := sessionFrom(r.Context())
	bc, err := s.bookings.BudgetContext(r.Context(), session.UserID, campaign, excludeID, cost)
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

func (s *HTTPServer) handleBrief(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session := sessionFrom(r.Context())
	booking, err := s.bookings.GetBooking(r.Context(), session.UserID, id)
	if err != nil {
		writeReadError(w, err)
		return
	}

	// Ошибки генерации не фатальны, текст-заглушка уже внутри
	text, _ := s.briefs.GenerateBrief(r.Context(), booking)
	writeJSON(w, http.StatusOK, map[string]string{"brief": text})
}

func (s *HTTPServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, err := s.currentView(r)
	if err != nil {
		writeReadError(w, err)
		return
	}

	text, _ := s.briefs.AnalyzeBookings(r.Context(), view)
	writeJSON(w, http.StatusOK, map[string]string{"analysis": text})
}
