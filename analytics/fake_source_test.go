package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var errQuery = errors.New("query failed")

// fakeSource is an in-memory Source. failAt names the query that fails.
type fakeSource struct {
	name      string
	missing   bool
	recent    float64
	previous  float64
	delivery  DeliveryAverages
	items     []ItemCount
	customers CustomerCounts
	tags      []TagCount
	peak      Hour
	failAt    string
	calls     []string
	asOf      time.Time
}

func (f *fakeSource) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failAt == name {
		return errQuery
	}
	return nil
}

func (f *fakeSource) MerchantName(ctx context.Context, merchantID string) (string, error) {
	if err := f.step("merchant"); err != nil {
		return "", err
	}
	if f.missing {
		return "", fmt.Errorf("%w: %s", ErrNotFound, merchantID)
	}
	return f.name, nil
}

func (f *fakeSource) Revenue(ctx context.Context, merchantID string, from, to time.Time) (float64, error) {
	if err := f.step("revenue"); err != nil {
		return 0, err
	}
	if to.Equal(f.asOf) {
		return f.recent, nil
	}
	return f.previous, nil
}

func (f *fakeSource) DeliveryAverages(ctx context.Context, merchantID string) (DeliveryAverages, error) {
	return f.delivery, f.step("delivery")
}

func (f *fakeSource) TopItems(ctx context.Context, merchantID string, limit int) ([]ItemCount, error) {
	if err := f.step("items"); err != nil {
		return nil, err
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeSource) CustomerCounts(ctx context.Context, merchantID string) (CustomerCounts, error) {
	return f.customers, f.step("customers")
}

func (f *fakeSource) TopCuisineTags(ctx context.Context, merchantID string, limit int) ([]TagCount, error) {
	return f.tags, f.step("tags")
}

func (f *fakeSource) PeakHour(ctx context.Context, merchantID string) (Hour, error) {
	return f.peak, f.step("peak")
}
