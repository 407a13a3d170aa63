package assistant

import (
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantassistant/analytics"
)

func TestBuildPromptMarksUnavailableAsNull(t *testing.T) {
	m := analytics.MerchantMetrics{
		MerchantName:  "Noodle House",
		Window:        analytics.Window{Days: 7, AsOf: time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)},
		RecentRevenue: 420,
		TopItems:      []analytics.ItemCount{{Name: "Laksa", Orders: 12}},
	}

	prompt, err := BuildPrompt(m, []analytics.Insight{{Type: analytics.InsightInfo, Title: "Not Enough Data"}})
	require.NoError(t, err)

	assert.Contains(t, prompt, `merchant named "Noodle House"`)
	assert.Contains(t, prompt, "last 7 days")
	assert.Contains(t, prompt, `"sales_change_percent":null`)
	assert.Contains(t, prompt, `"peak_hour":null`)
	assert.Contains(t, prompt, `"item_name":"Laksa"`)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("  Sales are up. "), genai.Text("Keep going.")}},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Sales are up. Keep going.", text)
}

func TestResponseTextEmpty(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
