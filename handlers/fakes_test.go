package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"merchantassistant/analytics"
	"merchantassistant/database"
	"merchantassistant/models"
)

var errBoom = errors.New("boom")

// fakeRepo serves canned data for known merchants. A merchant id of "broken"
// makes every query fail.
type fakeRepo struct {
	merchants map[string]string
	revenue   func(from, to time.Time) float64
	delivery  analytics.DeliveryAverages
	items     []analytics.ItemCount
	customers analytics.CustomerCounts
	tags      []analytics.TagCount
	peak      analytics.Hour
	keywords  []models.KeywordStat
}

func (r *fakeRepo) check(merchantID string) error {
	if merchantID == "broken" {
		return fmt.Errorf("%w: query: %w", analytics.ErrDataAccess, errBoom)
	}
	if _, ok := r.merchants[merchantID]; !ok {
		return fmt.Errorf("%w: %s", analytics.ErrNotFound, merchantID)
	}
	return nil
}

func (r *fakeRepo) MerchantName(ctx context.Context, merchantID string) (string, error) {
	if merchantID == "broken" {
		return "Broken", nil
	}
	if err := r.check(merchantID); err != nil {
		return "", err
	}
	return r.merchants[merchantID], nil
}

func (r *fakeRepo) Revenue(ctx context.Context, merchantID string, from, to time.Time) (float64, error) {
	if err := r.check(merchantID); err != nil {
		return 0, err
	}
	if r.revenue == nil {
		return 0, nil
	}
	return r.revenue(from, to), nil
}

func (r *fakeRepo) DeliveryAverages(ctx context.Context, merchantID string) (analytics.DeliveryAverages, error) {
	return r.delivery, r.check(merchantID)
}

func (r *fakeRepo) TopItems(ctx context.Context, merchantID string, limit int) ([]analytics.ItemCount, error) {
	if err := r.check(merchantID); err != nil {
		return nil, err
	}
	if len(r.items) > limit {
		return r.items[:limit], nil
	}
	return r.items, nil
}

func (r *fakeRepo) CustomerCounts(ctx context.Context, merchantID string) (analytics.CustomerCounts, error) {
	return r.customers, r.check(merchantID)
}

func (r *fakeRepo) TopCuisineTags(ctx context.Context, merchantID string, limit int) ([]analytics.TagCount, error) {
	return r.tags, r.check(merchantID)
}

func (r *fakeRepo) PeakHour(ctx context.Context, merchantID string) (analytics.Hour, error) {
	return r.peak, r.check(merchantID)
}

func (r *fakeRepo) ListMerchants(ctx context.Context, limit, offset int) ([]models.Merchant, int, error) {
	out := []models.Merchant{}
	for id, name := range r.merchants {
		out = append(out, models.Merchant{ID: id, Name: name})
	}
	return out, len(r.merchants), nil
}

func (r *fakeRepo) MerchantSummary(ctx context.Context, merchantID string) (models.MerchantSummary, error) {
	if err := r.check(merchantID); err != nil {
		return models.MerchantSummary{}, err
	}
	return models.MerchantSummary{
		MerchantID:          merchantID,
		Name:                r.merchants[merchantID],
		TotalSales:          1500,
		TransactionCount:    30,
		ActiveDays:          12,
		AvgTransactionValue: 50,
	}, nil
}

func (r *fakeRepo) SalesTotals(ctx context.Context, merchantID string, from, to time.Time) (models.SalesTotals, error) {
	rev, err := r.Revenue(ctx, merchantID, from, to)
	if err != nil {
		return models.SalesTotals{}, err
	}
	orders := 0
	if rev > 0 {
		orders = 10
	}
	return models.SalesTotals{TotalSales: rev, TotalOrders: orders}, nil
}

func (r *fakeRepo) DailySales(ctx context.Context, merchantID string, from, to time.Time) ([]models.DailySales, error) {
	if err := r.check(merchantID); err != nil {
		return nil, err
	}
	return []models.DailySales{{Date: from.Format("2006-01-02"), Sales: 120, Transactions: 3}}, nil
}

func (r *fakeRepo) TopProducts(ctx context.Context, merchantID string, limit int) ([]models.TopProduct, error) {
	if err := r.check(merchantID); err != nil {
		return nil, err
	}
	return []models.TopProduct{{ItemID: 1, Name: "Laksa", QuantitySold: 12, Revenue: 96}}, nil
}

func (r *fakeRepo) ItemPerformance(ctx context.Context, merchantID string) ([]models.ItemPerformance, error) {
	if err := r.check(merchantID); err != nil {
		return nil, err
	}
	return []models.ItemPerformance{{ItemID: 1, Name: "Laksa", Price: 8, OrderCount: 12, Revenue: 96}}, nil
}

func (r *fakeRepo) Keywords(ctx context.Context, limit int) ([]models.KeywordStat, error) {
	return r.keywords, nil
}

// fakeStore counts sessions so tests can check every one was closed.
type fakeStore struct {
	repo    *fakeRepo
	pingErr error
	opened  int
	closed  int
}

func (s *fakeStore) Session(ctx context.Context, fn func(database.Repository) error) error {
	s.opened++
	defer func() { s.closed++ }()
	return fn(s.repo)
}

func (s *fakeStore) Ping(ctx context.Context) error {
	return s.pingErr
}

// fakeNarrator returns a fixed summary or error.
type fakeNarrator struct {
	summary string
	err     error
}

func (n *fakeNarrator) Summarize(ctx context.Context, m analytics.MerchantMetrics, insights []analytics.Insight) (string, error) {
	return n.summary, n.err
}

func (n *fakeNarrator) Model() string {
	return "test-model"
}
