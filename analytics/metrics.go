package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MaxWindowDays bounds the ?days= parameter accepted by every windowed query.
const MaxWindowDays = 365

const (
	// NoteNoPreviousSales explains an unavailable period-over-period change.
	NoteNoPreviousSales = "no sales in the previous period, change unavailable"
	// NoteNoCustomers explains an unavailable repeat rate.
	NoteNoCustomers = "no customers yet, repeat rate unavailable"
	// NoteNoDeliveries explains unavailable delivery averages.
	NoteNoDeliveries = "no completed deliveries with full timestamps"
)

// Measure is a numeric value that may be unavailable. An invalid Measure
// marshals to JSON null, never to 0.
type Measure struct {
	Value float64
	Valid bool
}

// Some returns an available Measure.
func Some(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Unavailable is the zero Measure.
var Unavailable = Measure{}

// MarshalJSON implements json.Marshaler.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Measure) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = Unavailable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// Or returns the value, or def when the Measure is unavailable.
func (m Measure) Or(def float64) float64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

// PercentChange returns (current-previous)/previous*100. The change is
// unavailable unless previous is strictly positive.
func PercentChange(current, previous float64) Measure {
	if previous <= 0 {
		return Unavailable
	}
	// multiply first so whole-number percentages stay exact at rule boundaries
	return Some((current - previous) * 100 / previous)
}

// Ratio returns part/whole*100, unavailable unless whole is strictly positive.
func Ratio(part, whole float64) Measure {
	if whole <= 0 {
		return Unavailable
	}
	return Some(part * 100 / whole)
}

// Window is a trailing period of Days days ending at AsOf (exclusive).
type Window struct {
	Days int
	AsOf time.Time
}

// NewWindow validates days and builds a Window.
func NewWindow(days int, asOf time.Time) (Window, error) {
	w := Window{Days: days, AsOf: asOf}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate reports ErrInvalidInput for a window outside [1, MaxWindowDays].
func (w Window) Validate() error {
	if w.Days < 1 || w.Days > MaxWindowDays {
		return fmt.Errorf("%w: days must be between 1 and %d, got %d", ErrInvalidInput, MaxWindowDays, w.Days)
	}
	return nil
}

// Bounds returns the start of the previous period, the start of the recent
// period and the end of the recent period. Both periods are half-open.
func (w Window) Bounds() (previousFrom, recentFrom, end time.Time) {
	end = w.AsOf
	recentFrom = end.AddDate(0, 0, -w.Days)
	previousFrom = end.AddDate(0, 0, -2*w.Days)
	return previousFrom, recentFrom, end
}

// ComparisonLabel names the previous period in human-readable text.
func (w Window) ComparisonLabel() string {
	switch w.Days {
	case 7:
		return "last week"
	case 1:
		return "the previous day"
	default:
		return fmt.Sprintf("the previous %d days", w.Days)
	}
}

// ItemCount is a menu item and the number of orders that included it.
type ItemCount struct {
	Name   string `json:"item_name"`
	Orders int    `json:"total_orders"`
}

// TagCount is a cuisine tag and the number of ordered items carrying it.
type TagCount struct {
	Tag    string `json:"cuisine_tag"`
	Orders int    `json:"orders"`
}

// DeliveryAverages holds average order timings in minutes.
type DeliveryAverages struct {
	DeliveryMinutes Measure
	ArrivalMinutes  Measure
	PrepMinutes     Measure
}

// CustomerCounts holds distinct eaters and those with more than one order.
type CustomerCounts struct {
	Total  int
	Repeat int
}

// normalize clamps counts so that 0 <= Repeat <= Total.
func (c CustomerCounts) normalize() CustomerCounts {
	if c.Total < 0 {
		c.Total = 0
	}
	if c.Repeat < 0 {
		c.Repeat = 0
	}
	if c.Repeat > c.Total {
		c.Repeat = c.Total
	}
	return c
}

// Hour is an optional hour of day in [0, 23].
type Hour struct {
	Value int
	Valid bool
}

// HourOf returns a valid Hour, normalizing into [0, 23].
func HourOf(h int) Hour {
	return Hour{Value: ((h % 24) + 24) % 24, Valid: true}
}

// Next returns the following hour, wrapping at midnight.
func (h Hour) Next() int {
	return (h.Value + 1) % 24
}

// Period formats the hour as "H:00-H+1:00", e.g. "23:00-0:00".
func (h Hour) Period() string {
	return fmt.Sprintf("%d:00-%d:00", h.Value, h.Next())
}

// MarshalJSON implements json.Marshaler.
func (h Hour) MarshalJSON() ([]byte, error) {
	if !h.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(h.Value)
}

// MerchantMetrics is the normalized per-merchant snapshot consumed by the
// insight rules.
type MerchantMetrics struct {
	MerchantID   string
	MerchantName string
	Window       Window

	RecentRevenue   float64
	PreviousRevenue float64

	AvgDeliveryMinutes Measure
	AvgArrivalMinutes  Measure
	AvgPrepMinutes     Measure

	TopItems        []ItemCount
	TotalCustomers  int
	RepeatCustomers int
	TopCuisineTags  []TagCount
	PeakHour        Hour
}

// SalesChange is the percentage change of recent over previous revenue.
func (m MerchantMetrics) SalesChange() Measure {
	return PercentChange(m.RecentRevenue, m.PreviousRevenue)
}

// RepeatRate is the share of customers with more than one order, in percent.
func (m MerchantMetrics) RepeatRate() Measure {
	return Ratio(float64(m.RepeatCustomers), float64(m.TotalCustomers))
}

// TopItem returns the best-selling item that has at least one order.
func (m MerchantMetrics) TopItem() (ItemCount, bool) {
	return firstOrdered(m.TopItems)
}

// TopCategory returns the leading cuisine tag that has at least one order.
func (m MerchantMetrics) TopCategory() (TagCount, bool) {
	for _, t := range m.TopCuisineTags {
		if t.Orders >= 1 && t.Tag != "" {
			return t, true
		}
	}
	return TagCount{}, false
}

func firstOrdered(items []ItemCount) (ItemCount, bool) {
	for _, it := range items {
		if it.Orders >= 1 {
			return it, true
		}
	}
	return ItemCount{}, false
}
