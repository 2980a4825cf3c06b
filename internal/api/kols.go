package api

import (
	"net/http"
	"strings"

	"kolbook/internal/models"
)

func (s *HTTPServer) handleKOLs(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		var (
			kols []*models.KOLProfile
			err  error
		)
		if term := r.URL.Query().Get("search"); term != "" {
			kols, err = s.kols.SearchKOLs(r.Context(), session.UserID, term)
		} else {
			kols, err = s.kols.ListKOLs(r.Context(), session.UserID)
		}
		if err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"kols": kols, "total": len(kols)})

	case http.MethodPost:
		var kol models.KOLProfile
		if err := decodeJSON(r, &kol); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		kol.ID = ""
		kol.OwnerID = session.UserID

		if err := s.kols.CreateKOL(r.Context(), &kol); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, &kol)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleKOLByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/kols/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	session := sessionFrom(r.Context())
	switch r.Method {
	case http.MethodGet:
		kol, err := s.kols.GetKOL(r.Context(), session.UserID, id)
		if err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, kol)

	case http.MethodPut:
		var kol models.KOLProfile
		if err := decodeJSON(r, &kol); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		kol.ID = id
		kol.OwnerID = session.UserID

		if err := s.kols.UpdateKOL(r.Context(), &kol); err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &kol)

	case http.MethodDelete:
		if err := s.kols.DeleteKOL(r.Context(), session.UserID, id); err != nil {
			writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
