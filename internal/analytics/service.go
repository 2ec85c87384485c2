package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/pkg/enums"
)

// Summary aggregates one time bucket of the revenue ledger. ProductNet is
// the discounted merchandise value (subtotal minus discounts); NetRevenue
// adds shipping back in. Profit subtracts the bucket's cash outflows.
type Summary struct {
	Period       enums.AnalyticsPeriod `json:"period"`
	From         time.Time             `json:"from"`
	To           time.Time             `json:"to"`
	Orders       int                   `json:"orders"`
	Gross        decimal.Decimal       `json:"gross"`
	Discounts    decimal.Decimal       `json:"discounts"`
	ProductNet   decimal.Decimal       `json:"product_net"`
	Shipping     decimal.Decimal       `json:"shipping"`
	NetRevenue   decimal.Decimal       `json:"net_revenue"`
	OutflowTotal decimal.Decimal       `json:"outflow_total"`
	Profit       decimal.Decimal       `json:"profit"`
	AvgTicket    decimal.Decimal       `json:"avg_ticket"`
}

// Overview groups the four standard buckets anchored at the same instant.
type Overview struct {
	Day   *Summary `json:"day"`
	Week  *Summary `json:"week"`
	Month *Summary `json:"month"`
	Year  *Summary `json:"year"`
}

// SeriesPoint is one calendar day of revenue for chart rendering.
type SeriesPoint struct {
	Date       string          `json:"date"`
	Orders     int             `json:"orders"`
	NetRevenue decimal.Decimal `json:"net_revenue"`
}

// TopProduct ranks a product by revenue inside a bucket.
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	QtySold     decimal.Decimal `json:"qty_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Service computes time-bucketed views over paid orders and outflows.
// Everything is derived on read; there is no precomputed rollup table.
type Service interface {
	Summary(ctx context.Context, period enums.AnalyticsPeriod) (*Summary, error)
	Overview(ctx context.Context) (*Overview, error)
	DailySeries(ctx context.Context, days int) ([]SeriesPoint, error)
	TopProducts(ctx context.Context, period enums.AnalyticsPeriod, limit int) ([]TopProduct, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs an analytics service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Summary(ctx context.Context, period enums.AnalyticsPeriod) (*Summary, error) {
	from, to := bucketBounds(period, s.now())
	return s.summarize(ctx, period, from, to)
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	now := s.now()
	overview := &Overview{}
	for _, entry := range []struct {
		period enums.AnalyticsPeriod
		target **Summary
	}{
		{enums.AnalyticsPeriodDay, &overview.Day},
		{enums.AnalyticsPeriodWeek, &overview.Week},
		{enums.AnalyticsPeriodMonth, &overview.Month},
		{enums.AnalyticsPeriodYear, &overview.Year},
	} {
		from, to := bucketBounds(entry.period, now)
		summary, err := s.summarize(ctx, entry.period, from, to)
		if err != nil {
			return nil, err
		}
		*entry.target = summary
	}
	return overview, nil
}

func (s *service) summarize(ctx context.Context, period enums.AnalyticsPeriod, from, to time.Time) (*Summary, error) {
	orders, err := s.repo.RevenueOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	outflows, err := s.repo.Outflows(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Period:       period,
		From:         from,
		To:           to,
		Orders:       len(orders),
		Gross:        decimal.Zero,
		Discounts:    decimal.Zero,
		ProductNet:   decimal.Zero,
		Shipping:     decimal.Zero,
		NetRevenue:   decimal.Zero,
		OutflowTotal: decimal.Zero,
		AvgTicket:    decimal.Zero,
	}
	for _, order := range orders {
		summary.Gross = summary.Gross.Add(order.Subtotal)
		summary.Discounts = summary.Discounts.Add(order.Discount)
		summary.ProductNet = summary.ProductNet.Add(order.TotalBase)
		summary.Shipping = summary.Shipping.Add(order.Shipping)
		summary.NetRevenue = summary.NetRevenue.Add(order.Total)
	}
	for _, outflow := range outflows {
		summary.OutflowTotal = summary.OutflowTotal.Add(outflow.Amount)
	}

	summary.Profit = summary.NetRevenue.Sub(summary.OutflowTotal)
	if summary.Orders > 0 {
		summary.AvgTicket = summary.NetRevenue.
			Div(decimal.NewFromInt(int64(summary.Orders))).
			Round(2)
	}
	return summary, nil
}

func (s *service) DailySeries(ctx context.Context, days int) ([]SeriesPoint, error) {
	if days <= 0 {
		days = 30
	}

	now := s.now()
	start := startOfDay(now).AddDate(0, 0, -(days - 1))
	end := startOfDay(now).AddDate(0, 0, 1)

	orders, err := s.repo.RevenueOrders(ctx, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]SeriesPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = SeriesPoint{Date: date, NetRevenue: decimal.Zero}
		index[date] = i
	}
	for _, order := range orders {
		date := order.CreatedAt.In(now.Location()).Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			continue
		}
		points[i].Orders++
		points[i].NetRevenue = points[i].NetRevenue.Add(order.Total)
	}
	return points, nil
}

func (s *service) TopProducts(ctx context.Context, period enums.AnalyticsPeriod, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	from, to := bucketBounds(period, s.now())
	items, err := s.repo.RevenueItems(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byProduct := map[uuid.UUID]*TopProduct{}
	for _, item := range items {
		entry, ok := byProduct[item.ProductID]
		if !ok {
			entry = &TopProduct{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				QtySold:     decimal.Zero,
				Revenue:     decimal.Zero,
			}
			byProduct[item.ProductID] = entry
		}
		entry.QtySold = entry.QtySold.Add(item.Qty)
		entry.Revenue = entry.Revenue.Add(item.LineTotal)
	}

	ranked := make([]TopProduct, 0, len(byProduct))
	for _, entry := range byProduct {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Revenue.Equal(ranked[j].Revenue) {
			return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
		}
		return ranked[i].ProductName < ranked[j].ProductName
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// bucketBounds returns [from, to) for the bucket containing ref. Weeks are
// ISO weeks starting Monday.
func bucketBounds(period enums.AnalyticsPeriod, ref time.Time) (time.Time, time.Time) {
	day := startOfDay(ref)
	switch period {
	case enums.AnalyticsPeriodDay:
		return day, day.AddDate(0, 0, 1)
	case enums.AnalyticsPeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7)
	case enums.AnalyticsPeriodYear:
		start := time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(1, 0, 0)
	default: // month
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, 0)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
