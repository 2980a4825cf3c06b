package api

import (
	"net/http"

	"kolbook/internal/query"
	"kolbook/internal/stats"
)

// handleDashboard aggregates the owner's bookings into the dashboard summary.
// The date window and the dimension filters narrow the charts; campaign spend
// is always computed over the full list so budgets stay truthful.
func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	filter := query.DashboardFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Campaign:  q.Get("campaign"),
		Product:   q.Get("product"),
		Platform:  q.Get("platform"),
	}

	session := sessionFrom(r.Context())
	all, err := s.bookings.ListBookings(r.Context(), session.UserID)
	if err != nil {
		writeReadError(w, err)
		return
	}
	campaigns, err := s.campaigns.ListCampaigns(r.Context(), session.UserID)
	if err != nil {
		writeReadError(w, err)
		return
	}

	summary := stats.Summarize(filter.Apply(all), all, campaigns)
	writeJSON(w, http.StatusOK, summary)
}
