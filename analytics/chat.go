package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"merchantassistant/utils"
)

// Intent is what a chat message is asking about.
type Intent string

const (
	IntentSales   Intent = "sales"
	IntentProduct Intent = "product"
	IntentTraffic Intent = "traffic"
	IntentInsight Intent = "insight"
	IntentUnknown Intent = "unknown"
)

// Suggested follow-up actions understood by the dashboard client.
const (
	ActionViewSalesReport   = "view_sales_report"
	ActionViewProductReport = "view_product_report"
	ActionViewTrafficReport = "view_traffic_report"
	ActionViewInsights      = "view_insights"
)

// chatSalesDays is the revenue window quoted by the sales reply.
const chatSalesDays = 7

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is evaluated top to bottom; the first rule with a matching
// keyword wins.
var intentRules = []intentRule{
	{intent: IntentSales, keywords: []string{"sales", "revenue", "earning"}},
	{intent: IntentProduct, keywords: []string{"product", "item", "inventory"}},
	{intent: IntentTraffic, keywords: []string{"busy", "peak", "customer", "traffic"}},
	{intent: IntentInsight, keywords: []string{"insight", "tip", "advice", "recommend"}},
}

// DetectIntent maps free text to an intent by case-insensitive substring
// match against the keyword rules.
func DetectIntent(message string) Intent {
	text := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}

// ChatQuery is one message from a merchant.
type ChatQuery struct {
	MerchantID string
	Message    string
	AsOf       time.Time
}

// ChatReply is the assistant's answer. Action is nil when there is no
// follow-up to suggest.
type ChatReply struct {
	Intent Intent  `json:"intent"`
	Text   string  `json:"text"`
	Action *string `json:"action"`
}

// Respond resolves the merchant, detects the intent and answers it with the
// metrics that intent needs.
func Respond(ctx context.Context, src Source, q ChatQuery) (ChatReply, error) {
	name, err := src.MerchantName(ctx, q.MerchantID)
	if err != nil {
		return ChatReply{}, classify("merchant lookup", err)
	}

	intent := DetectIntent(q.Message)
	switch intent {
	case IntentSales:
		return salesReply(ctx, src, q, name)
	case IntentProduct:
		return productReply(ctx, src, q)
	case IntentTraffic:
		return trafficReply(ctx, src, q)
	case IntentInsight:
		return insightReply(ctx, src, q)
	}

	return ChatReply{
		Intent: IntentUnknown,
		Text:   fmt.Sprintf("Hello %s! I'm your Merchant Assistant. You can ask me about your sales, products, busy hours, or for business insights.", name),
	}, nil
}

func salesReply(ctx context.Context, src Source, q ChatQuery, name string) (ChatReply, error) {
	w := Window{Days: chatSalesDays, AsOf: q.AsOf}
	_, from, to := w.Bounds()
	total, err := src.Revenue(ctx, q.MerchantID, from, to)
	if err != nil {
		return ChatReply{}, classify("recent revenue", err)
	}
	if total < 0 {
		total = 0
	}
	return ChatReply{
		Intent: IntentSales,
		Text:   fmt.Sprintf("Hi %s, your sales in the past %d days amount to %s. Would you like to see a detailed breakdown?", name, chatSalesDays, utils.FormatMoney(total)),
		Action: action(ActionViewSalesReport),
	}, nil
}

func productReply(ctx context.Context, src Source, q ChatQuery) (ChatReply, error) {
	items, err := src.TopItems(ctx, q.MerchantID, 1)
	if err != nil {
		return ChatReply{}, classify("top items", err)
	}
	top, ok := firstOrdered(items)
	if !ok {
		return ChatReply{
			Intent: IntentProduct,
			Text:   "I don't see any product sales data yet. Let me know when you start selling and I'll provide insights on your best products.",
		}, nil
	}
	return ChatReply{
		Intent: IntentProduct,
		Text:   fmt.Sprintf("Your best-selling product is '%s' with %d orders. Would you like to see your top 5 products?", top.Name, top.Orders),
		Action: action(ActionViewProductReport),
	}, nil
}

func trafficReply(ctx context.Context, src Source, q ChatQuery) (ChatReply, error) {
	peak, err := src.PeakHour(ctx, q.MerchantID)
	if err != nil {
		return ChatReply{}, classify("peak hour", err)
	}
	if !peak.Valid {
		return ChatReply{
			Intent: IntentTraffic,
			Text:   "I don't have enough data yet to determine your peak business hours. I'll analyze this once you have more transactions.",
		}, nil
	}
	return ChatReply{
		Intent: IntentTraffic,
		Text:   fmt.Sprintf("Your busiest time is between %d:00 and %d:00. You might want to ensure you're fully staffed during these hours.", peak.Value, peak.Next()),
		Action: action(ActionViewTrafficReport),
	}, nil
}

func insightReply(ctx context.Context, src Source, q ChatQuery) (ChatReply, error) {
	m, err := Extract(ctx, src, q.MerchantID, Window{Days: chatSalesDays, AsOf: q.AsOf})
	if err != nil {
		return ChatReply{}, err
	}
	insights := Evaluate(m)
	if len(insights) == 0 {
		return ChatReply{
			Intent: IntentInsight,
			Text:   "I'm still gathering data to generate meaningful insights for your business. Check back soon!",
		}, nil
	}
	first := insights[0]
	return ChatReply{
		Intent: IntentInsight,
		Text:   fmt.Sprintf("Here's an insight for you: %s - %s Would you like to see more insights?", first.Title, first.Description),
		Action: action(ActionViewInsights),
	}, nil
}

func action(name string) *string {
	return &name
}
