package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/models"
)

const (
	// monthlyWindow is the number of calendar months in the sales report,
	// current month included.
	monthlyWindow = 6
	topProductsN  = 5
)

// AnalyticsServiceProvider defines the interface for seller analytics.
type AnalyticsServiceProvider interface {
	GetOverview(ctx context.Context, sellerID string) (models.AnalyticsOverview, error)
	GetCategoryDistribution(ctx context.Context, sellerID string) ([]models.CategoryDistribution, error)
	GetMonthlySales(ctx context.Context, sellerID string) ([]models.MonthlySales, error)
	GetTopProducts(ctx context.Context, sellerID string) ([]models.TopProduct, error)
}

// AnalyticsService aggregates a seller's listings.
type AnalyticsService struct {
	db  *database.DB
	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(db *database.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

// GetOverview counts listings, sold items, revenue and wishlist saves.
func (s *AnalyticsService) GetOverview(ctx context.Context, sellerID string) (models.AnalyticsOverview, error) {
	var o models.AnalyticsOverview
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_sold THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN is_sold THEN price ELSE 0 END), 0)
		FROM products WHERE seller_id = ?`, sellerID,
	).Scan(&o.TotalListings, &o.SoldItems, &o.TotalRevenue)
	if err != nil {
		return o, fmt.Errorf("failed to aggregate listings: %w", err)
	}
	o.ActiveListings = o.TotalListings - o.SoldItems

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE p.seller_id = ?`, sellerID,
	).Scan(&o.WishlistCount)
	if err != nil {
		return o, fmt.Errorf("failed to count wishlist saves: %w", err)
	}
	return o, nil
}

// GetCategoryDistribution groups listings by category, most listed first.
func (s *AnalyticsService) GetCategoryDistribution(ctx context.Context, sellerID string) ([]models.CategoryDistribution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS n,
		       COALESCE(SUM(CASE WHEN is_sold THEN price ELSE 0 END), 0)
		FROM products
		WHERE seller_id = ?
		GROUP BY category
		ORDER BY n DESC, category ASC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := []models.CategoryDistribution{}
	for rows.Next() {
		var d models.CategoryDistribution
		if err := rows.Scan(&d.Category, &d.Count, &d.Revenue); err != nil {
			return nil, err
		}
		dist = append(dist, d)
	}
	return dist, rows.Err()
}

// monthBuckets returns the start of each month in the trailing window, oldest
// first, plus the window end (now).
func monthBuckets(now time.Time, n int) ([]time.Time, time.Time) {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	starts := make([]time.Time, n)
	for i := 0; i < n; i++ {
		starts[i] = first.AddDate(0, i-(n-1), 0)
	}
	return starts, now
}

// GetMonthlySales reports listings created and items sold per calendar
// month over the trailing window. The current month ends at now.
func (s *AnalyticsService) GetMonthlySales(ctx context.Context, sellerID string) ([]models.MonthlySales, error) {
	starts, end := monthBuckets(s.now(), monthlyWindow)
	windowStart := database.FormatTime(starts[0])

	months := make([]models.MonthlySales, len(starts))
	for i, st := range starts {
		months[i] = models.MonthlySales{Month: st.Format("Jan 2006")}
	}
	bucket := func(t time.Time) int {
		if t.Before(starts[0]) || !t.Before(end) {
			return -1
		}
		for i := len(starts) - 1; i >= 0; i-- {
			if !t.Before(starts[i]) {
				return i
			}
		}
		return -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT price, is_sold, sold_at, created_at
		FROM products
		WHERE seller_id = ? AND (created_at >= ? OR sold_at >= ?)`,
		sellerID, windowStart, windowStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var price float64
		var isSold bool
		var soldAt sql.NullString
		var createdAt string
		if err := rows.Scan(&price, &isSold, &soldAt, &createdAt); err != nil {
			return nil, err
		}

		if t, err := database.ParseTime(createdAt); err == nil {
			if i := bucket(t); i >= 0 {
				months[i].Listings++
			}
		}
		if isSold && soldAt.Valid {
			if t, err := database.ParseTime(soldAt.String); err == nil {
				if i := bucket(t); i >= 0 {
					months[i].Sold++
					months[i].Revenue += price
				}
			}
		}
	}
	return months, rows.Err()
}

// GetTopProducts ranks the seller's products by wishlist saves.
func (s *AnalyticsService) GetTopProducts(ctx context.Context, sellerID string) ([]models.TopProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.price, p.category, p.is_sold, COUNT(w.id) AS saves
		FROM products p
		LEFT JOIN wishlist w ON w.product_id = p.id
		WHERE p.seller_id = ?
		GROUP BY p.id, p.name, p.price, p.category, p.is_sold, p.created_at
		ORDER BY saves DESC, p.created_at ASC, p.id ASC
		LIMIT ?`, sellerID, topProductsN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []models.TopProduct{}
	for rows.Next() {
		var tp models.TopProduct
		if err := rows.Scan(&tp.ID, &tp.Name, &tp.Price, &tp.Category, &tp.IsSold, &tp.WishlistCount); err != nil {
			return nil, err
		}
		top = append(top, tp)
	}
	return top, rows.Err()
}
