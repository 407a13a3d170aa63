package models

import "merchantassistant/analytics"

// NarrativeResponse is the structure for GET .../insights/summary: the rule
// based insights plus a model-written summary of them.
type NarrativeResponse struct {
	MerchantID string              `json:"merchant_id"`
	Days       int                 `json:"days"`
	Model      string              `json:"model"`
	Summary    string              `json:"summary"`
	Insights   []analytics.Insight `json:"insights"`
}
