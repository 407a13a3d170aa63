package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsOf = time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)

func TestExtract(t *testing.T) {
	src := &fakeSource{
		name:      "Noodle House",
		recent:    1200,
		previous:  1000,
		delivery:  DeliveryAverages{DeliveryMinutes: Some(38), ArrivalMinutes: Some(9), PrepMinutes: Some(12)},
		items:     []ItemCount{{Name: "Laksa", Orders: 12}, {Name: "Satay", Orders: 8}},
		customers: CustomerCounts{Total: 10, Repeat: 4},
		tags:      []TagCount{{Tag: "malaysian", Orders: 20}},
		peak:      HourOf(19),
		asOf:      testAsOf,
	}

	m, err := Extract(context.Background(), src, "m-1", Window{Days: 7, AsOf: testAsOf})
	require.NoError(t, err)

	assert.Equal(t, "Noodle House", m.MerchantName)
	assert.Equal(t, 1200.0, m.RecentRevenue)
	assert.Equal(t, 1000.0, m.PreviousRevenue)
	assert.Equal(t, Some(38), m.AvgDeliveryMinutes)
	assert.Len(t, m.TopItems, 2)
	assert.Equal(t, 10, m.TotalCustomers)
	assert.Equal(t, 4, m.RepeatCustomers)
	assert.Equal(t, HourOf(19), m.PeakHour)
	assert.Equal(t, []string{"merchant", "revenue", "revenue", "delivery", "items", "customers", "tags", "peak"}, src.calls)
}

func TestExtractNormalizes(t *testing.T) {
	src := &fakeSource{
		name:      "Quiet Cafe",
		recent:    -5,
		customers: CustomerCounts{Total: 2, Repeat: 7},
		asOf:      testAsOf,
	}

	m, err := Extract(context.Background(), src, "m-2", Window{Days: 7, AsOf: testAsOf})
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.RecentRevenue)
	assert.Equal(t, 2, m.RepeatCustomers)
	assert.NotNil(t, m.TopItems)
	assert.NotNil(t, m.TopCuisineTags)
	assert.False(t, m.PeakHour.Valid)
	assert.False(t, m.AvgDeliveryMinutes.Valid)
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(context.Background(), &fakeSource{}, "m-1", Window{Days: 0, AsOf: testAsOf})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Extract(context.Background(), &fakeSource{missing: true}, "m-404", Window{Days: 7, AsOf: testAsOf})
	assert.ErrorIs(t, err, ErrNotFound)

	for _, stage := range []string{"revenue", "delivery", "items", "customers", "tags", "peak"} {
		src := &fakeSource{name: "x", failAt: stage, asOf: testAsOf}
		_, err := Extract(context.Background(), src, "m-1", Window{Days: 7, AsOf: testAsOf})
		assert.ErrorIs(t, err, ErrDataAccess, stage)
		assert.ErrorIs(t, err, errQuery, stage)
		assert.Equal(t, stage, src.calls[len(src.calls)-1], "no query after the failing one")
	}
}
