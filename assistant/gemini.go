package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"merchantassistant/analytics"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned no text")

// Narrator turns computed insights into a short written summary.
type Narrator interface {
	Summarize(ctx context.Context, m analytics.MerchantMetrics, insights []analytics.Insight) (string, error)
	Model() string
}

// Gemini is a Narrator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the API client once; call Close on shutdown.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// Summarize asks the model for a merchant-facing summary.
func (g *Gemini) Summarize(ctx context.Context, m analytics.MerchantMetrics, insights []analytics.Insight) (string, error) {
	prompt, err := BuildPrompt(m, insights)
	if err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return responseText(resp)
}

// Close releases the API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// BuildPrompt embeds the metrics and insights as JSON in the instruction.
func BuildPrompt(m analytics.MerchantMetrics, insights []analytics.Insight) (string, error) {
	data, err := json.Marshal(struct {
		Merchant      string                `json:"merchant"`
		Days          int                   `json:"days"`
		RecentSales   float64               `json:"recent_sales"`
		PreviousSales float64               `json:"previous_sales"`
		SalesChange   analytics.Measure     `json:"sales_change_percent"`
		RepeatRate    analytics.Measure     `json:"repeat_rate_percent"`
		AvgDelivery   analytics.Measure     `json:"avg_delivery_minutes"`
		PeakHour      analytics.Hour        `json:"peak_hour"`
		TopItems      []analytics.ItemCount `json:"top_items"`
		Insights      []analytics.Insight   `json:"insights"`
	}{
		Merchant:      m.MerchantName,
		Days:          m.Window.Days,
		RecentSales:   m.RecentRevenue,
		PreviousSales: m.PreviousRevenue,
		SalesChange:   m.SalesChange(),
		RepeatRate:    m.RepeatRate(),
		AvgDelivery:   m.AvgDeliveryMinutes,
		PeakHour:      m.PeakHour,
		TopItems:      m.TopItems,
		Insights:      insights,
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize data: %w", err)
	}

	return fmt.Sprintf(
		`You are a helpful business assistant for a food delivery merchant named "%s". Using only the data below, write a concise summary of at most five sentences covering the last %d days and the most useful next step. Null values mean the figure is unavailable; do not guess them.

Data: %s`,
		m.MerchantName,
		m.Window.Days,
		string(data),
	), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
