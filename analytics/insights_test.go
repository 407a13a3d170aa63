package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekMetrics(recent, previous float64) MerchantMetrics {
	return MerchantMetrics{
		MerchantName:    "Noodle House",
		Window:          Window{Days: 7, AsOf: testAsOf},
		RecentRevenue:   recent,
		PreviousRevenue: previous,
	}
}

func titles(insights []Insight) []string {
	out := make([]string, 0, len(insights))
	for _, in := range insights {
		out = append(out, in.Title)
	}
	return out
}

func TestSalesTrendBoundaries(t *testing.T) {
	cases := []struct {
		recent float64
		title  string
		kind   InsightType
	}{
		{recent: 1200, title: "Strong Sales Growth", kind: InsightPositive},
		{recent: 1150.001, title: "Strong Sales Growth", kind: InsightPositive},
		{recent: 1150, title: "Moderate Sales Growth", kind: InsightPositive},
		{recent: 1060, title: "Moderate Sales Growth", kind: InsightPositive},
		{recent: 1050.0001, title: "Moderate Sales Growth", kind: InsightPositive},
		{recent: 1050, title: ""},
		{recent: 950, title: ""},
		{recent: 949.999, title: "Sales Decrease", kind: InsightWarning},
		{recent: 940, title: "Sales Decrease", kind: InsightWarning},
		{recent: 850, title: "Sales Decrease", kind: InsightWarning},
		{recent: 849.999, title: "Significant Sales Drop", kind: InsightNegative},
		{recent: 800, title: "Significant Sales Drop", kind: InsightNegative},
	}
	for _, tc := range cases {
		insights := Evaluate(weekMetrics(tc.recent, 1000))
		if tc.title == "" {
			assert.Empty(t, insights, "recent=%v", tc.recent)
			continue
		}
		require.NotEmpty(t, insights, "recent=%v", tc.recent)
		assert.Equal(t, tc.title, insights[0].Title, "recent=%v", tc.recent)
		assert.Equal(t, tc.kind, insights[0].Type, "recent=%v", tc.recent)
	}
}

func TestSalesTrendDescription(t *testing.T) {
	insights := Evaluate(weekMetrics(1200, 1000))
	assert.Equal(t, "Your sales increased by 20.0% compared to last week.", insights[0].Description)

	insights = Evaluate(weekMetrics(800, 1000))
	assert.Equal(t, "Your sales decreased by 20.0% compared to last week.", insights[0].Description)
}

func TestEvaluateWithoutData(t *testing.T) {
	insights := Evaluate(weekMetrics(0, 0))
	require.Len(t, insights, 1)
	assert.Equal(t, "Not Enough Data", insights[0].Title)
	assert.Equal(t, InsightInfo, insights[0].Type)
}

func TestEvaluateOrder(t *testing.T) {
	m := weekMetrics(1200, 1000)
	m.TopCuisineTags = []TagCount{{Tag: "malaysian", Orders: 20}}
	m.PeakHour = HourOf(23)
	m.AvgDeliveryMinutes = Some(50)
	m.AvgPrepMinutes = Some(20)
	m.TopItems = []ItemCount{{Name: "Laksa", Orders: 12}}
	m.TotalCustomers = 10
	m.RepeatCustomers = 6

	insights := Evaluate(m)
	assert.Equal(t, []string{
		"Strong Sales Growth",
		"Top Selling Category",
		"Peak Business Hours",
		"Slow Deliveries",
		"Long Preparation Time",
		"Top Selling Item",
		"Excellent Customer Retention",
	}, titles(insights))
	assert.Contains(t, insights[2].Description, "23:00-0:00")
}

func TestThresholdsAreStrict(t *testing.T) {
	m := weekMetrics(1000, 1000)
	m.AvgDeliveryMinutes = Some(45)
	m.AvgPrepMinutes = Some(15)
	m.TotalCustomers = 10
	m.RepeatCustomers = 2
	assert.Empty(t, Evaluate(m))

	m.RepeatCustomers = 5
	assert.Empty(t, Evaluate(m))

	m.RepeatCustomers = 1
	assert.Equal(t, []string{"Low Repeat Customer Rate"}, titles(Evaluate(m)))
}

func TestRecommend(t *testing.T) {
	m := MerchantMetrics{
		Window:          Window{Days: 30, AsOf: testAsOf},
		RecentRevenue:   1200,
		PreviousRevenue: 1000,
		AvgPrepMinutes:  Some(18),
		TopItems:        []ItemCount{{Name: "Laksa", Orders: 12}},
		TotalCustomers:  10,
		RepeatCustomers: 6,
	}

	r := Recommend(m)
	assert.Equal(t, []string{
		"Great! Sales increased by 20.0% compared to the previous 30 days. Maintain momentum with targeted ads.",
		"Your top selling item is: Laksa. Consider bundling or promoting it more.",
		"Excellent customer retention. Keep up the good service!",
	}, r.Recommendations)
	assert.Equal(t, []string{"Preparation time is relatively long. Re-evaluate kitchen workflows."}, r.Alerts)
}

func TestRecommendBands(t *testing.T) {
	m := MerchantMetrics{Window: Window{Days: 30, AsOf: testAsOf}, RecentRevenue: 1100, PreviousRevenue: 1000}
	assert.Empty(t, Recommend(m).Recommendations)

	m.PreviousRevenue = 0
	r := Recommend(m)
	assert.Equal(t, []string{"Not enough data from the previous 30 days to calculate sales growth."}, r.Recommendations)
	assert.NotNil(t, r.Alerts)
}
