package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"merchantassistant/analytics"
	"merchantassistant/models"
)

// DBTX is the subset of a pgx connection the queries need. *pgxpool.Conn,
// *pgxpool.Pool and pgx.Tx all satisfy it.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is everything the HTTP layer reads from the database.
type Repository interface {
	analytics.Source

	ListMerchants(ctx context.Context, limit, offset int) ([]models.Merchant, int, error)
	MerchantSummary(ctx context.Context, merchantID string) (models.MerchantSummary, error)
	SalesTotals(ctx context.Context, merchantID string, from, to time.Time) (models.SalesTotals, error)
	DailySales(ctx context.Context, merchantID string, from, to time.Time) ([]models.DailySales, error)
	TopProducts(ctx context.Context, merchantID string, limit int) ([]models.TopProduct, error)
	ItemPerformance(ctx context.Context, merchantID string) ([]models.ItemPerformance, error)
	Keywords(ctx context.Context, limit int) ([]models.KeywordStat, error)
}

// Queries implements Repository on top of a single connection.
type Queries struct {
	db DBTX
}

// NewQueries binds the queries to db.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

var _ Repository = (*Queries)(nil)

func dataErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", analytics.ErrDataAccess, op, err)
}

func measureOf(v *float64) analytics.Measure {
	if v == nil {
		return analytics.Unavailable
	}
	return analytics.Some(*v)
}

// MerchantName returns ErrNotFound when no merchant row matches.
func (q *Queries) MerchantName(ctx context.Context, merchantID string) (string, error) {
	var name string
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(merchant_name, '')
		FROM merchants
		WHERE merchant_id = $1
	`, merchantID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", analytics.ErrNotFound, merchantID)
	}
	if err != nil {
		return "", dataErr("merchant name", err)
	}
	return name, nil
}

// Revenue sums order values with order_time in [from, to).
func (q *Queries) Revenue(ctx context.Context, merchantID string, from, to time.Time) (float64, error) {
	var total float64
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(order_value), 0)::float8
		FROM transaction_data
		WHERE merchant_id = $1 AND order_time >= $2 AND order_time < $3
	`, merchantID, from, to).Scan(&total)
	if err != nil {
		return 0, dataErr("revenue", err)
	}
	return total, nil
}

// DeliveryAverages averages timings over orders with all three timestamps.
func (q *Queries) DeliveryAverages(ctx context.Context, merchantID string) (analytics.DeliveryAverages, error) {
	var delivery, arrival, prep *float64
	err := q.db.QueryRow(ctx, `
		SELECT
			AVG(EXTRACT(EPOCH FROM (delivery_time - order_time)) / 60)::float8,
			AVG(EXTRACT(EPOCH FROM (driver_arrival_time - order_time)) / 60)::float8,
			AVG(EXTRACT(EPOCH FROM (driver_pickup_time - driver_arrival_time)) / 60)::float8
		FROM transaction_data
		WHERE merchant_id = $1
			AND delivery_time IS NOT NULL
			AND driver_arrival_time IS NOT NULL
			AND driver_pickup_time IS NOT NULL
	`, merchantID).Scan(&delivery, &arrival, &prep)
	if err != nil {
		return analytics.DeliveryAverages{}, dataErr("delivery averages", err)
	}
	return analytics.DeliveryAverages{
		DeliveryMinutes: measureOf(delivery),
		ArrivalMinutes:  measureOf(arrival),
		PrepMinutes:     measureOf(prep),
	}, nil
}

// TopItems ranks the merchant's items by the number of orders including them.
func (q *Queries) TopItems(ctx context.Context, merchantID string, limit int) ([]analytics.ItemCount, error) {
	rows, err := q.db.Query(ctx, `
		SELECT i.item_name, COUNT(ti.id) AS total_orders
		FROM items i
		JOIN transaction_items ti ON i.item_id = ti.item_id
		WHERE i.merchant_id = $1 AND i.item_name IS NOT NULL
		GROUP BY i.item_name
		ORDER BY total_orders DESC, i.item_name
		LIMIT $2
	`, merchantID, limit)
	if err != nil {
		return nil, dataErr("top items", err)
	}
	defer rows.Close()

	items := []analytics.ItemCount{}
	for rows.Next() {
		var it analytics.ItemCount
		if err := rows.Scan(&it.Name, &it.Orders); err != nil {
			return nil, dataErr("scan top item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("top items", err)
	}
	return items, nil
}

// CustomerCounts counts distinct eaters and those with more than one order.
func (q *Queries) CustomerCounts(ctx context.Context, merchantID string) (analytics.CustomerCounts, error) {
	var c analytics.CustomerCounts
	err := q.db.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total_customers,
			COUNT(*) FILTER (WHERE order_count > 1) AS repeat_customers
		FROM (
			SELECT eater_id, COUNT(*) AS order_count
			FROM transaction_data
			WHERE merchant_id = $1 AND eater_id IS NOT NULL
			GROUP BY eater_id
		) per_eater
	`, merchantID).Scan(&c.Total, &c.Repeat)
	if err != nil {
		return analytics.CustomerCounts{}, dataErr("customer counts", err)
	}
	return c, nil
}

// TopCuisineTags ranks cuisine tags by ordered items carrying them.
func (q *Queries) TopCuisineTags(ctx context.Context, merchantID string, limit int) ([]analytics.TagCount, error) {
	rows, err := q.db.Query(ctx, `
		SELECT i.cuisine_tag, COUNT(*) AS orders
		FROM items i
		JOIN transaction_items ti ON i.item_id = ti.item_id
		WHERE i.merchant_id = $1 AND i.cuisine_tag IS NOT NULL
		GROUP BY i.cuisine_tag
		ORDER BY orders DESC, i.cuisine_tag
		LIMIT $2
	`, merchantID, limit)
	if err != nil {
		return nil, dataErr("cuisine tags", err)
	}
	defer rows.Close()

	tags := []analytics.TagCount{}
	for rows.Next() {
		var t analytics.TagCount
		if err := rows.Scan(&t.Tag, &t.Orders); err != nil {
			return nil, dataErr("scan cuisine tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("cuisine tags", err)
	}
	return tags, nil
}

// PeakHour returns the hour of day with the most orders, or an invalid Hour
// when the merchant has no orders.
func (q *Queries) PeakHour(ctx context.Context, merchantID string) (analytics.Hour, error) {
	var hour, count int
	err := q.db.QueryRow(ctx, `
		SELECT EXTRACT(HOUR FROM order_time)::int AS hour_of_day, COUNT(*) AS order_count
		FROM transaction_data
		WHERE merchant_id = $1 AND order_time IS NOT NULL
		GROUP BY hour_of_day
		ORDER BY order_count DESC, hour_of_day
		LIMIT 1
	`, merchantID).Scan(&hour, &count)
	if errors.Is(err, pgx.ErrNoRows) {
		return analytics.Hour{}, nil
	}
	if err != nil {
		return analytics.Hour{}, dataErr("peak hour", err)
	}
	return analytics.HourOf(hour), nil
}

// ListMerchants returns one page of merchants and the total count.
func (q *Queries) ListMerchants(ctx context.Context, limit, offset int) ([]models.Merchant, int, error) {
	var total int
	if err := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM merchants`).Scan(&total); err != nil {
		return nil, 0, dataErr("count merchants", err)
	}

	rows, err := q.db.Query(ctx, `
		SELECT merchant_id, COALESCE(merchant_name, ''), join_date, city_id
		FROM merchants
		ORDER BY merchant_name, merchant_id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, dataErr("list merchants", err)
	}
	defer rows.Close()

	merchants := []models.Merchant{}
	for rows.Next() {
		var m models.Merchant
		if err := rows.Scan(&m.ID, &m.Name, &m.JoinDate, &m.CityID); err != nil {
			return nil, 0, dataErr("scan merchant", err)
		}
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dataErr("list merchants", err)
	}
	return merchants, total, nil
}

// MerchantSummary returns the merchant row with lifetime sales totals.
func (q *Queries) MerchantSummary(ctx context.Context, merchantID string) (models.MerchantSummary, error) {
	var s models.MerchantSummary
	err := q.db.QueryRow(ctx, `
		SELECT merchant_id, COALESCE(merchant_name, ''), join_date, city_id
		FROM merchants
		WHERE merchant_id = $1
	`, merchantID).Scan(&s.MerchantID, &s.Name, &s.JoinDate, &s.CityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.MerchantSummary{}, fmt.Errorf("%w: %s", analytics.ErrNotFound, merchantID)
	}
	if err != nil {
		return models.MerchantSummary{}, dataErr("merchant", err)
	}

	err = q.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(order_value), 0)::float8 AS total_sales,
			COUNT(DISTINCT order_id) AS transaction_count,
			COUNT(DISTINCT DATE(order_time)) AS active_days,
			COALESCE(AVG(order_value), 0)::float8 AS avg_transaction_value
		FROM transaction_data
		WHERE merchant_id = $1
	`, merchantID).Scan(&s.TotalSales, &s.TransactionCount, &s.ActiveDays, &s.AvgTransactionValue)
	if err != nil {
		return models.MerchantSummary{}, dataErr("merchant summary", err)
	}
	return s, nil
}

// SalesTotals returns revenue and order count with order_time in [from, to).
func (q *Queries) SalesTotals(ctx context.Context, merchantID string, from, to time.Time) (models.SalesTotals, error) {
	var t models.SalesTotals
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(order_value), 0)::float8, COUNT(DISTINCT order_id)
		FROM transaction_data
		WHERE merchant_id = $1 AND order_time >= $2 AND order_time < $3
	`, merchantID, from, to).Scan(&t.TotalSales, &t.TotalOrders)
	if err != nil {
		return models.SalesTotals{}, dataErr("sales totals", err)
	}
	return t, nil
}

// DailySales groups revenue by calendar day, oldest first. Days without
// orders are absent.
func (q *Queries) DailySales(ctx context.Context, merchantID string, from, to time.Time) ([]models.DailySales, error) {
	rows, err := q.db.Query(ctx, `
		SELECT DATE(order_time) AS sale_date, COALESCE(SUM(order_value), 0)::float8, COUNT(DISTINCT order_id)
		FROM transaction_data
		WHERE merchant_id = $1 AND order_time >= $2 AND order_time < $3
		GROUP BY DATE(order_time)
		ORDER BY sale_date
	`, merchantID, from, to)
	if err != nil {
		return nil, dataErr("daily sales", err)
	}
	defer rows.Close()

	sales := []models.DailySales{}
	for rows.Next() {
		var (
			day time.Time
			d   models.DailySales
		)
		if err := rows.Scan(&day, &d.Sales, &d.Transactions); err != nil {
			return nil, dataErr("scan daily sales", err)
		}
		d.Date = day.Format("2006-01-02")
		sales = append(sales, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("daily sales", err)
	}
	return sales, nil
}

// TopProducts ranks items by revenue at list price.
func (q *Queries) TopProducts(ctx context.Context, merchantID string, limit int) ([]models.TopProduct, error) {
	rows, err := q.db.Query(ctx, `
		SELECT
			i.item_id,
			i.item_name,
			i.cuisine_tag,
			COUNT(ti.id) AS quantity_sold,
			COALESCE(SUM(i.item_price), 0)::float8 AS revenue
		FROM items i
		JOIN transaction_items ti ON i.item_id = ti.item_id
		WHERE i.merchant_id = $1
		GROUP BY i.item_id, i.item_name, i.cuisine_tag
		ORDER BY revenue DESC, quantity_sold DESC, i.item_name
		LIMIT $2
	`, merchantID, limit)
	if err != nil {
		return nil, dataErr("top products", err)
	}
	defer rows.Close()

	products := []models.TopProduct{}
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.ItemID, &p.Name, &p.Category, &p.QuantitySold, &p.Revenue); err != nil {
			return nil, dataErr("scan top product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("top products", err)
	}
	return products, nil
}

// ItemPerformance lists every menu item, including those never ordered.
func (q *Queries) ItemPerformance(ctx context.Context, merchantID string) ([]models.ItemPerformance, error) {
	rows, err := q.db.Query(ctx, `
		SELECT
			i.item_id,
			i.item_name,
			i.cuisine_tag,
			COALESCE(i.item_price, 0)::float8 AS price,
			COUNT(ti.id) AS order_count,
			(COALESCE(i.item_price, 0) * COUNT(ti.id))::float8 AS revenue
		FROM items i
		LEFT JOIN transaction_items ti ON i.item_id = ti.item_id
		WHERE i.merchant_id = $1
		GROUP BY i.item_id, i.item_name, i.cuisine_tag, i.item_price
		ORDER BY order_count DESC, i.item_name
	`, merchantID)
	if err != nil {
		return nil, dataErr("item performance", err)
	}
	defer rows.Close()

	items := []models.ItemPerformance{}
	for rows.Next() {
		var it models.ItemPerformance
		if err := rows.Scan(&it.ItemID, &it.Name, &it.Category, &it.Price, &it.OrderCount, &it.Revenue); err != nil {
			return nil, dataErr("scan item performance", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("item performance", err)
	}
	return items, nil
}

// Keywords returns the platform-wide search funnel, most ordered first.
func (q *Queries) Keywords(ctx context.Context, limit int) ([]models.KeywordStat, error) {
	rows, err := q.db.Query(ctx, `
		SELECT keyword, COALESCE(view, 0), COALESCE(menu, 0), COALESCE(checkout, 0), COALESCE("order", 0) AS orders
		FROM keywords
		ORDER BY orders DESC, keyword
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, dataErr("keywords", err)
	}
	defer rows.Close()

	stats := []models.KeywordStat{}
	for rows.Next() {
		var k models.KeywordStat
		if err := rows.Scan(&k.Keyword, &k.Views, &k.MenuViews, &k.Checkouts, &k.Orders); err != nil {
			return nil, dataErr("scan keyword", err)
		}
		k.ConversionRate = analytics.Ratio(float64(k.Orders), float64(k.Views))
		stats = append(stats, k)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("keywords", err)
	}
	return stats, nil
}
