package analytics

import (
	"fmt"
	"math"
)

// InsightType classifies an insight for display.
type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightNegative InsightType = "negative"
	InsightWarning  InsightType = "warning"
	InsightInfo     InsightType = "info"
)

// Insight is a human-readable observation derived from thresholded metrics.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// Thresholds used by the rules. Comparisons are strict unless noted at the
// call site.
const (
	strongGrowthPct    = 15.0
	moderateGrowthPct  = 5.0
	alertGrowthPct     = 10.0
	slowDeliveryMin    = 45.0
	slowPrepMin        = 15.0
	lowRepeatRatePct   = 20.0
	highRepeatRatePct  = 50.0
	maxInsightsPerEval = 8
)

// Evaluate applies every insight rule to m and returns the insights that
// fire, in rule order: sales trend, category, peak hour, delivery, top item,
// repeat rate.
func Evaluate(m MerchantMetrics) []Insight {
	out := make([]Insight, 0, maxInsightsPerEval)

	if in, ok := salesTrend(m); ok {
		out = append(out, in)
	}

	if tag, ok := m.TopCategory(); ok {
		out = append(out, Insight{
			Type:        InsightInfo,
			Title:       "Top Selling Category",
			Description: fmt.Sprintf("Your best selling category is '%s'. Consider expanding this category.", tag.Tag),
		})
	}

	if m.PeakHour.Valid {
		out = append(out, Insight{
			Type:        InsightInfo,
			Title:       "Peak Business Hours",
			Description: fmt.Sprintf("Your busiest time is around %s. Consider optimizing staffing during this period.", m.PeakHour.Period()),
		})
	}

	if m.AvgDeliveryMinutes.Valid && m.AvgDeliveryMinutes.Value > slowDeliveryMin {
		out = append(out, Insight{
			Type:        InsightWarning,
			Title:       "Slow Deliveries",
			Description: fmt.Sprintf("Average delivery time is %.1f minutes, above the %.0f-minute target. Review logistics operations.", m.AvgDeliveryMinutes.Value, slowDeliveryMin),
		})
	}
	if m.AvgPrepMinutes.Valid && m.AvgPrepMinutes.Value > slowPrepMin {
		out = append(out, Insight{
			Type:        InsightWarning,
			Title:       "Long Preparation Time",
			Description: fmt.Sprintf("Average preparation time is %.1f minutes. Re-evaluate kitchen workflows.", m.AvgPrepMinutes.Value),
		})
	}

	if item, ok := m.TopItem(); ok {
		out = append(out, Insight{
			Type:        InsightInfo,
			Title:       "Top Selling Item",
			Description: fmt.Sprintf("Your top selling item is %s with %d orders. Consider bundling or promoting it more.", item.Name, item.Orders),
		})
	}

	if rate := m.RepeatRate(); rate.Valid {
		switch {
		case rate.Value < lowRepeatRatePct:
			out = append(out, Insight{
				Type:        InsightInfo,
				Title:       "Low Repeat Customer Rate",
				Description: fmt.Sprintf("Only %.1f%% of your customers ordered more than once. Implement loyalty programs or feedback surveys.", rate.Value),
			})
		case rate.Value > highRepeatRatePct:
			out = append(out, Insight{
				Type:        InsightPositive,
				Title:       "Excellent Customer Retention",
				Description: fmt.Sprintf("%.1f%% of your customers come back. Keep up the good service!", rate.Value),
			})
		}
	}

	return out
}

func salesTrend(m MerchantMetrics) (Insight, bool) {
	change := m.SalesChange()
	if !change.Valid {
		return Insight{
			Type:        InsightInfo,
			Title:       "Not Enough Data",
			Description: fmt.Sprintf("There were no sales in %s, so sales growth cannot be calculated yet.", m.Window.ComparisonLabel()),
		}, true
	}

	c := change.Value
	label := m.Window.ComparisonLabel()
	switch {
	case c > strongGrowthPct:
		return Insight{
			Type:        InsightPositive,
			Title:       "Strong Sales Growth",
			Description: fmt.Sprintf("Your sales increased by %.1f%% compared to %s.", c, label),
		}, true
	case c > moderateGrowthPct:
		return Insight{
			Type:        InsightPositive,
			Title:       "Moderate Sales Growth",
			Description: fmt.Sprintf("Your sales increased by %.1f%% compared to %s.", c, label),
		}, true
	case c < -strongGrowthPct:
		return Insight{
			Type:        InsightNegative,
			Title:       "Significant Sales Drop",
			Description: fmt.Sprintf("Your sales decreased by %.1f%% compared to %s.", math.Abs(c), label),
		}, true
	case c < -moderateGrowthPct:
		return Insight{
			Type:        InsightWarning,
			Title:       "Sales Decrease",
			Description: fmt.Sprintf("Your sales decreased by %.1f%% compared to %s.", math.Abs(c), label),
		}, true
	}
	return Insight{}, false
}

// Recommendations is the longer-window report: suggestions for the merchant
// and operational alerts.
type Recommendations struct {
	Recommendations []string `json:"recommendations"`
	Alerts          []string `json:"alerts"`
}

// Recommend applies the recommendation rules to m. Sales growth uses the
// wider +/-10% band.
func Recommend(m MerchantMetrics) Recommendations {
	r := Recommendations{
		Recommendations: []string{},
		Alerts:          []string{},
	}

	if change := m.SalesChange(); change.Valid {
		switch {
		case change.Value < -alertGrowthPct:
			r.Recommendations = append(r.Recommendations, fmt.Sprintf("Sales dropped by %.1f%% compared to %s. Consider offering promotions or discounts.", math.Abs(change.Value), m.Window.ComparisonLabel()))
		case change.Value > alertGrowthPct:
			r.Recommendations = append(r.Recommendations, fmt.Sprintf("Great! Sales increased by %.1f%% compared to %s. Maintain momentum with targeted ads.", change.Value, m.Window.ComparisonLabel()))
		}
	} else {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf("Not enough data from %s to calculate sales growth.", m.Window.ComparisonLabel()))
	}

	if m.AvgDeliveryMinutes.Valid && m.AvgDeliveryMinutes.Value > slowDeliveryMin {
		r.Alerts = append(r.Alerts, "Average delivery time exceeds 45 minutes. Review logistics operations.")
	}
	if m.AvgPrepMinutes.Valid && m.AvgPrepMinutes.Value > slowPrepMin {
		r.Alerts = append(r.Alerts, "Preparation time is relatively long. Re-evaluate kitchen workflows.")
	}

	if item, ok := m.TopItem(); ok {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf("Your top selling item is: %s. Consider bundling or promoting it more.", item.Name))
	}

	if rate := m.RepeatRate(); rate.Valid {
		switch {
		case rate.Value < lowRepeatRatePct:
			r.Recommendations = append(r.Recommendations, "Low repeat customer rate. Implement loyalty programs or feedback surveys.")
		case rate.Value > highRepeatRatePct:
			r.Recommendations = append(r.Recommendations, "Excellent customer retention. Keep up the good service!")
		}
	}

	return r
}
