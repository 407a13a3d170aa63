package models

import (
	"time"

	"merchantassistant/analytics"
)

// MerchantSummary holds lifetime totals for a merchant.
type MerchantSummary struct {
	MerchantID          string     `json:"merchant_id"`
	Name                string     `json:"name"`
	JoinDate            *time.Time `json:"join_date,omitempty"`
	CityID              *int       `json:"city_id,omitempty"`
	TotalSales          float64    `json:"total_sales"`
	TransactionCount    int        `json:"transaction_count"`
	ActiveDays          int        `json:"active_days"`
	AvgTransactionValue float64    `json:"avg_transaction_value"`
}

// DailySales is one day of the sales series.
type DailySales struct {
	Date         string  `json:"date"`
	Sales        float64 `json:"sales"`
	Transactions int     `json:"transactions"`
}

// DailySalesResponse wraps the series with its window.
type DailySalesResponse struct {
	MerchantID string       `json:"merchant_id"`
	Days       int          `json:"days"`
	Sales      []DailySales `json:"sales"`
}

// TopProduct represents a summary of a single product's performance.
type TopProduct struct {
	ItemID       int64   `json:"item_id"`
	Name         string  `json:"name"`
	Category     *string `json:"category"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// ItemPerformance is one menu item with its order count and revenue.
type ItemPerformance struct {
	ItemID     int64   `json:"item_id"`
	Name       string  `json:"name"`
	Category   *string `json:"category"`
	Price      float64 `json:"price"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// ItemPerformanceResponse is the structure for GET .../items/performance.
type ItemPerformanceResponse struct {
	MerchantID string            `json:"merchant_id"`
	Items      []ItemPerformance `json:"items"`
}

// KeywordStat is the search funnel for one keyword.
type KeywordStat struct {
	Keyword        string            `json:"keyword"`
	Views          int               `json:"views"`
	MenuViews      int               `json:"menu_views"`
	Checkouts      int               `json:"checkouts"`
	Orders         int               `json:"orders"`
	ConversionRate analytics.Measure `json:"conversion_rate"`
}

// KeywordsResponse is the structure for GET .../keywords. Scoped is false
// because the keyword table carries no merchant column.
type KeywordsResponse struct {
	Keywords []KeywordStat `json:"keywords"`
	Scoped   bool          `json:"scoped"`
	Note     string        `json:"note,omitempty"`
}

// SalesTotals is the revenue and order count of a period.
type SalesTotals struct {
	TotalSales  float64
	TotalOrders int
}

// SalesMetrics compares the current window with the one before it.
type SalesMetrics struct {
	MerchantID      string            `json:"merchant_id"`
	Days            int               `json:"days"`
	TotalSales      float64           `json:"total_sales"`
	TotalOrders     int               `json:"total_orders"`
	AvgOrderValue   analytics.Measure `json:"avg_order_value"`
	PreviousSales   float64           `json:"previous_sales"`
	SalesChange     analytics.Measure `json:"sales_change"`
	SalesChangeNote string            `json:"sales_change_note,omitempty"`
}

// SalesInsight is the revenue part of the insights snapshot.
type SalesInsight struct {
	RecentSales       float64           `json:"recent_sales"`
	PreviousSales     float64           `json:"previous_sales"`
	GrowthRatePercent analytics.Measure `json:"growth_rate_percent"`
}

// DeliveryInsight holds average order timings in minutes.
type DeliveryInsight struct {
	AvgDeliveryTimeMin    analytics.Measure `json:"avg_delivery_time_min"`
	AvgArrivalTimeMin     analytics.Measure `json:"avg_arrival_time_min"`
	AvgPreparationTimeMin analytics.Measure `json:"avg_preparation_time_min"`
}

// CustomerInsight holds the repeat-customer figures.
type CustomerInsight struct {
	TotalCustomers    int               `json:"total_unique_customers"`
	RepeatCustomers   int               `json:"repeat_customers"`
	RepeatRatePercent analytics.Measure `json:"repeat_rate_percent"`
}

// InsightsResponse is the structure for GET .../insights.
type InsightsResponse struct {
	MerchantID         string                `json:"merchant_id"`
	MerchantName       string                `json:"merchant_name"`
	Days               int                   `json:"days"`
	AsOf               time.Time             `json:"as_of"`
	SalesInsight       SalesInsight          `json:"sales_insight"`
	DeliveryMetrics    DeliveryInsight       `json:"delivery_metrics"`
	TopItems           []analytics.ItemCount `json:"top_items"`
	CustomerMetrics    CustomerInsight       `json:"customer_metrics"`
	PopularCuisineTags []analytics.TagCount  `json:"popular_cuisine_tags"`
	PeakHour           analytics.Hour        `json:"peak_hour"`
	Insights           []analytics.Insight   `json:"insights"`
	Notes              []string              `json:"notes,omitempty"`
}

// NewInsightsResponse flattens a metrics snapshot and its insights for the
// dashboard, attaching a note for every unavailable figure.
func NewInsightsResponse(m analytics.MerchantMetrics, insights []analytics.Insight) InsightsResponse {
	resp := InsightsResponse{
		MerchantID:   m.MerchantID,
		MerchantName: m.MerchantName,
		Days:         m.Window.Days,
		AsOf:         m.Window.AsOf,
		SalesInsight: SalesInsight{
			RecentSales:       m.RecentRevenue,
			PreviousSales:     m.PreviousRevenue,
			GrowthRatePercent: m.SalesChange(),
		},
		DeliveryMetrics: DeliveryInsight{
			AvgDeliveryTimeMin:    m.AvgDeliveryMinutes,
			AvgArrivalTimeMin:     m.AvgArrivalMinutes,
			AvgPreparationTimeMin: m.AvgPrepMinutes,
		},
		TopItems: m.TopItems,
		CustomerMetrics: CustomerInsight{
			TotalCustomers:    m.TotalCustomers,
			RepeatCustomers:   m.RepeatCustomers,
			RepeatRatePercent: m.RepeatRate(),
		},
		PopularCuisineTags: m.TopCuisineTags,
		PeakHour:           m.PeakHour,
		Insights:           insights,
	}

	if !resp.SalesInsight.GrowthRatePercent.Valid {
		resp.Notes = append(resp.Notes, analytics.NoteNoPreviousSales)
	}
	if !m.AvgDeliveryMinutes.Valid {
		resp.Notes = append(resp.Notes, analytics.NoteNoDeliveries)
	}
	if !resp.CustomerMetrics.RepeatRatePercent.Valid {
		resp.Notes = append(resp.Notes, analytics.NoteNoCustomers)
	}
	return resp
}

// RecommendationsResponse is the structure for GET .../recommendations.
type RecommendationsResponse struct {
	MerchantID   string    `json:"merchant_id"`
	MerchantName string    `json:"merchant_name"`
	Days         int       `json:"days"`
	AsOf         time.Time `json:"as_of"`
	analytics.Recommendations
}
