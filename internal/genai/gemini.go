// Package genai drafts KOL briefs and spend commentary through the Gemini
// REST API. Failures never propagate to callers; every error path returns a
// fixed Vietnamese fallback string so the dashboard stays usable offline.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kolbook/internal/config"
	"kolbook/internal/models"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	fallbackBriefEmpty   = "Không thể tạo nội dung lúc này."
	fallbackBriefError   = "Đã xảy ra lỗi khi kết nối với AI. Vui lòng thử lại."
	fallbackAnalyzeEmpty = "Không có nhận xét."
	fallbackAnalyzeError = "Không thể phân tích dữ liệu."
)

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(cfg config.GeminiConfig, logger *zerolog.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// generateContent request/response shapes, trimmed to the fields we read.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateBrief drafts a content brief for one booking. The returned string
// is always usable; the error is informational only.
func (c *Client) GenerateBrief(ctx context.Context, booking *models.Booking) (string, error) {
	prompt := fmt.Sprintf(`Bạn là một trợ lý ảo chuyên nghiệp cho Marketing Agency.
Hãy viết một bản tóm tắt nội dung (brief) ngắn gọn và sáng tạo để gửi cho KOL.

Thông tin:
- Chiến dịch: %s
- Sản phẩm: %s
- KOL: %s
- Nền tảng: %s
- Hình thức: %s
- Ghi chú thêm: %s

Yêu cầu:
- Giọng điệu chuyên nghiệp, thân thiện.
- Tập trung vào tính năng (USP) của sản phẩm.
- Gợi ý 3 ý tưởng nội dung chính (Bullet points).
- Không dùng Markdown quá phức tạp, chỉ text rõ ràng.
- Ngôn ngữ: Tiếng Việt.`,
		booking.CampaignName, booking.ProductName, booking.KOL.Name,
		booking.Platform, booking.Format, booking.Note)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Error().Err(err).Str("booking_id", booking.ID).Msg("Gemini brief generation failed")
		return fallbackBriefError, err
	}
	if text == "" {
		return fallbackBriefEmpty, nil
	}
	return text, nil
}

// AnalyzeBookings produces a short spend commentary over the given list.
func (c *Client) AnalyzeBookings(ctx context.Context, bookings []*models.Booking) (string, error) {
	var lines []string
	for _, b := range bookings {
		lines = append(lines, fmt.Sprintf("- %s (%s - %s): %s - %d VND",
			b.KOL.Name, b.Platform, b.ProductName, b.Status, b.Cost))
	}

	prompt := fmt.Sprintf(`Dựa trên danh sách booking dưới đây, hãy đưa ra nhận xét ngắn gọn (dưới 100 từ) về tình hình chi tiêu, hiệu quả phân bổ theo sản phẩm và trạng thái các booking.

Dữ liệu:
%s`, strings.Join(lines, "\n"))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Error().Err(err).Msg("Gemini analysis failed")
		return fallbackAnalyzeError, err
	}
	if text == "" {
		return fallbackAnalyzeEmpty, nil
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}
