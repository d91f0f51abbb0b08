package models

// AnalyticsOverview summarises a seller's listings.
type AnalyticsOverview struct {
	TotalListings  int     `json:"total_listings"`
	ActiveListings int     `json:"active_listings"`
	SoldItems      int     `json:"sold_items"`
	TotalRevenue   float64 `json:"total_revenue"`
	WishlistCount  int     `json:"wishlist_count"`
}

// CategoryDistribution is one row of the per-category breakdown.
type CategoryDistribution struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Revenue  float64 `json:"revenue"`
}

// MonthlySales is one calendar-month bucket.
type MonthlySales struct {
	Month    string  `json:"month"` // e.g. "Mar 2025"
	Listings int     `json:"listings"`
	Sold     int     `json:"sold"`
	Revenue  float64 `json:"revenue"`
}

// TopProduct is a seller's product ranked by wishlist saves.
type TopProduct struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	WishlistCount int     `json:"wishlist_count"`
	IsSold        bool    `json:"is_sold"`
}
