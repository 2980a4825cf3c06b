package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"kolbook/internal/auth"
	"kolbook/internal/metrics"
	"kolbook/internal/models"
)

type sessionKeyType struct{}

var sessionKey sessionKeyType

// sessionFrom returns the authenticated session stored by withSession.
func sessionFrom(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey).(*models.Session)
	return s
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// withSession resolves the bearer token and rejects anonymous requests.
func (s *HTTPServer) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}

		session, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check session")
			return
		}
		if session == nil {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next(w, r.WithContext(ctx))
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Token:  session.Token,
		UserID: session.UserID,
		Email:  session.Email,
	})
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.IncLogin("rejected")
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		metrics.IncLogin("error")
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	metrics.IncLogin("ok")
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:  session.Token,
		UserID: session.UserID,
		Email:  session.Email,
	})
}

func (s *HTTPServer) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.auth.SignOut(r.Context(), bearerToken(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:  session.Token,
		UserID: session.UserID,
		Email:  session.Email,
	})
}
