package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kolbook/internal/config"
	"kolbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zerolog.New(io.Discard)
	client := NewClient(config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.5-flash"}, &logger)
	client.baseURL = server.URL
	return client
}

func geminiReply(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func TestGenerateBrief(t *testing.T) {
	booking := &models.Booking{
		CampaignName: "Tet Sale",
		ProductName:  "Lip Tint",
		KOL:          models.KOLInfo{Name: "Mai Beauty"},
		Platform:     models.PlatformTikTok,
		Format:       models.FormatVideo,
		Note:         "nhấn mạnh màu đỏ",
	}

	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			prompt := req.Contents[0].Parts[0].Text
			assert.Contains(t, prompt, "Tet Sale")
			assert.Contains(t, prompt, "Mai Beauty")

			io.WriteString(w, geminiReply("Brief nội dung cho Mai Beauty"))
		})

		text, err := client.GenerateBrief(context.Background(), booking)
		require.NoError(t, err)
		assert.Equal(t, "Brief nội dung cho Mai Beauty", text)
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"candidates":[]}`)
		})

		text, err := client.GenerateBrief(context.Background(), booking)
		require.NoError(t, err)
		assert.Equal(t, fallbackBriefEmpty, text)
	})

	t.Run("ServerError", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		text, err := client.GenerateBrief(context.Background(), booking)
		assert.Error(t, err)
		assert.Equal(t, fallbackBriefError, text)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		logger := zerolog.New(io.Discard)
		client := NewClient(config.GeminiConfig{Model: "gemini-2.5-flash"}, &logger)

		text, err := client.GenerateBrief(context.Background(), booking)
		assert.Error(t, err)
		assert.Equal(t, fallbackBriefError, text)
	})
}

func TestAnalyzeBookings(t *testing.T) {
	bookings := []*models.Booking{
		{KOL: models.KOLInfo{Name: "Mai Beauty"}, Platform: models.PlatformTikTok, ProductName: "Lip Tint", Status: models.StatusConfirmed, Cost: 40000000},
		{KOL: models.KOLInfo{Name: "Tuan Tech"}, Platform: models.PlatformYouTube, ProductName: "Serum", Status: models.StatusCompleted, Cost: 60000000},
	}

	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			prompt := req.Contents[0].Parts[0].Text
			assert.True(t, strings.Contains(prompt, "Mai Beauty") && strings.Contains(prompt, "Tuan Tech"))
			assert.Contains(t, prompt, "40000000 VND")

			io.WriteString(w, geminiReply("Chi tiêu tập trung vào TikTok."))
		})

		text, err := client.AnalyzeBookings(context.Background(), bookings)
		require.NoError(t, err)
		assert.Equal(t, "Chi tiêu tập trung vào TikTok.", text)
	})

	t.Run("ErrorReturnsFallback", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		text, err := client.AnalyzeBookings(context.Background(), bookings)
		assert.Error(t, err)
		assert.Equal(t, fallbackAnalyzeError, text)
	})
}
