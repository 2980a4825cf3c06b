package api

import (
	"net/http"
	"strings"

	"kolbook/internal/models"
)

func (s *HTTPServer) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
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
		writeJSON(w, http.StatusOK, map[string]any{
			"campaigns": campaigns,
			"spent":     spent,
			"total":     len(campaigns),
		})

	case http.MethodPost:
		var campaign models.Campaign
		if err := decodeJSON(r, &campaign); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		campaign.ID = ""
		campaign.OwnerID = session.UserID

		if err := s.campaigns.CreateCampaign(r.Context(), &campaign); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, &campaign)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCampaignByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/campaigns/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	session := sessionFrom(r.Context())
	switch r.Method {
	case http.MethodGet:
		campaign, err := s.campaigns.GetCampaign(r.Context(), session.UserID, id)
		if err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, campaign)

	case http.MethodPut:
		var campaign models.Campaign
		if err := decodeJSON(r, &campaign); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		campaign.ID = id
		campaign.OwnerID = session.UserID

		if err := s.campaigns.UpdateCampaign(r.Context(), &campaign); err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &campaign)

	case http.MethodDelete:
		if err := s.campaigns.DeleteCampaign(r.Context(), session.UserID, id); err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
