package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	topItemsLimit = 5
	topTagsLimit  = 3
)

// Source is the read side of the store, bound to one acquired connection.
// Implementations return ErrNotFound for an unknown merchant and wrap every
// other failure in ErrDataAccess.
type Source interface {
	MerchantName(ctx context.Context, merchantID string) (string, error)
	Revenue(ctx context.Context, merchantID string, from, to time.Time) (float64, error)
	DeliveryAverages(ctx context.Context, merchantID string) (DeliveryAverages, error)
	TopItems(ctx context.Context, merchantID string, limit int) ([]ItemCount, error)
	CustomerCounts(ctx context.Context, merchantID string) (CustomerCounts, error)
	TopCuisineTags(ctx context.Context, merchantID string, limit int) ([]TagCount, error)
	PeakHour(ctx context.Context, merchantID string) (Hour, error)
}

// Extract runs the aggregate queries for one merchant and window. Queries are
// issued sequentially on src; the first failure aborts and no partial
// metrics are returned.
func Extract(ctx context.Context, src Source, merchantID string, w Window) (MerchantMetrics, error) {
	if err := w.Validate(); err != nil {
		return MerchantMetrics{}, err
	}

	name, err := src.MerchantName(ctx, merchantID)
	if err != nil {
		return MerchantMetrics{}, classify("merchant lookup", err)
	}

	m := MerchantMetrics{
		MerchantID:   merchantID,
		MerchantName: name,
		Window:       w,
	}

	previousFrom, recentFrom, end := w.Bounds()
	if m.RecentRevenue, err = src.Revenue(ctx, merchantID, recentFrom, end); err != nil {
		return MerchantMetrics{}, classify("recent revenue", err)
	}
	if m.PreviousRevenue, err = src.Revenue(ctx, merchantID, previousFrom, recentFrom); err != nil {
		return MerchantMetrics{}, classify("previous revenue", err)
	}

	delivery, err := src.DeliveryAverages(ctx, merchantID)
	if err != nil {
		return MerchantMetrics{}, classify("delivery averages", err)
	}
	m.AvgDeliveryMinutes = delivery.DeliveryMinutes
	m.AvgArrivalMinutes = delivery.ArrivalMinutes
	m.AvgPrepMinutes = delivery.PrepMinutes

	if m.TopItems, err = src.TopItems(ctx, merchantID, topItemsLimit); err != nil {
		return MerchantMetrics{}, classify("top items", err)
	}

	counts, err := src.CustomerCounts(ctx, merchantID)
	if err != nil {
		return MerchantMetrics{}, classify("customer counts", err)
	}
	counts = counts.normalize()
	m.TotalCustomers = counts.Total
	m.RepeatCustomers = counts.Repeat

	if m.TopCuisineTags, err = src.TopCuisineTags(ctx, merchantID, topTagsLimit); err != nil {
		return MerchantMetrics{}, classify("cuisine tags", err)
	}

	if m.PeakHour, err = src.PeakHour(ctx, merchantID); err != nil {
		return MerchantMetrics{}, classify("peak hour", err)
	}

	if m.RecentRevenue < 0 {
		m.RecentRevenue = 0
	}
	if m.PreviousRevenue < 0 {
		m.PreviousRevenue = 0
	}
	if m.TopItems == nil {
		m.TopItems = []ItemCount{}
	}
	if m.TopCuisineTags == nil {
		m.TopCuisineTags = []TagCount{}
	}
	return m, nil
}

// classify keeps the error taxonomy intact: anything that is not already a
// NotFound or DataAccess error becomes a DataAccess error.
func classify(stage string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDataAccess) || errors.Is(err, ErrInvalidInput) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrDataAccess, stage, err)
}
