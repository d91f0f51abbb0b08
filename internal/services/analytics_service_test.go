package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/models"
)

type analyticsFixture struct {
	us *UserService
	ps *ProductService
	ws *WishlistService
	as *AnalyticsService
}

func newAnalyticsFixture(t *testing.T) analyticsFixture {
	t.Helper()
	db := newTestDB(t)
	ps := NewProductService(db)
	ps.now = fixedClock(time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC), time.Minute)
	return analyticsFixture{
		us: NewUserService(db, testDomain),
		ps: ps,
		ws: NewWishlistService(db, ps),
		as: NewAnalyticsService(db),
	}
}

func (f analyticsFixture) product(t *testing.T, seller models.User, cat string, price float64) models.Product {
	in := validInput()
	in.Category = cat
	in.Price = price
	return mustProduct(t, f.ps, seller, in)
}

func TestOverviewAndDistribution(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()
	seller := mustUser(t, f.us, "stats")
	rival := mustUser(t, f.us, "rival")
	fan := mustUser(t, f.us, "fan")

	lamp := f.product(t, seller, "Electronics", 500)
	phone := f.product(t, seller, "Electronics", 8000)
	f.product(t, seller, "Electronics", 300)
	book := f.product(t, seller, "Books & Study Material", 250)
	theirs := f.product(t, rival, "Electronics", 999)

	for _, id := range []string{lamp.ID, book.ID} {
		if err := f.ps.MarkSold(ctx, seller, id); err != nil {
			t.Fatalf("MarkSold: %v", err)
		}
	}
	for _, id := range []string{lamp.ID, phone.ID, theirs.ID} {
		if _, err := f.ws.AddToWishlist(ctx, fan.ID, id); err != nil {
			t.Fatalf("AddToWishlist: %v", err)
		}
	}
	if _, err := f.ws.AddToWishlist(ctx, rival.ID, phone.ID); err != nil {
		t.Fatalf("AddToWishlist: %v", err)
	}

	o, err := f.as.GetOverview(ctx, seller.ID)
	if err != nil {
		t.Fatalf("GetOverview returned error: %v", err)
	}
	want := models.AnalyticsOverview{TotalListings: 4, ActiveListings: 2, SoldItems: 2, TotalRevenue: 750, WishlistCount: 3}
	if o != want {
		t.Fatalf("overview: got %+v want %+v", o, want)
	}

	dist, err := f.as.GetCategoryDistribution(ctx, seller.ID)
	if err != nil {
		t.Fatalf("GetCategoryDistribution returned error: %v", err)
	}
	wantDist := []models.CategoryDistribution{
		{Category: "Electronics", Count: 3, Revenue: 500},
		{Category: "Books & Study Material", Count: 1, Revenue: 250},
	}
	if !reflect.DeepEqual(dist, wantDist) {
		t.Fatalf("distribution: got %+v want %+v", dist, wantDist)
	}

	top, err := f.as.GetTopProducts(ctx, seller.ID)
	if err != nil {
		t.Fatalf("GetTopProducts returned error: %v", err)
	}
	if len(top) != 4 {
		t.Fatalf("top products: got %d entries", len(top))
	}
	if top[0].ID != phone.ID || top[0].WishlistCount != 2 || top[1].ID != lamp.ID || top[1].WishlistCount != 1 || !top[1].IsSold {
		t.Fatalf("top ranking wrong: %+v", top)
	}
}

func TestOverviewEmptySeller(t *testing.T) {
	f := newAnalyticsFixture(t)
	o, err := f.as.GetOverview(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetOverview returned error: %v", err)
	}
	if o != (models.AnalyticsOverview{}) {
		t.Fatalf("expected zero overview, got %+v", o)
	}
	dist, _ := f.as.GetCategoryDistribution(context.Background(), "nobody")
	top, _ := f.as.GetTopProducts(context.Background(), "nobody")
	if dist == nil || len(dist) != 0 || top == nil || len(top) != 0 {
		t.Fatalf("expected empty non-nil slices, got %v %v", dist, top)
	}
}

func TestTopProductsCapsAtFive(t *testing.T) {
	f := newAnalyticsFixture(t)
	seller := mustUser(t, f.us, "many")
	for i := 0; i < 7; i++ {
		f.product(t, seller, "Other Useful Stuff", 10)
	}
	top, err := f.as.GetTopProducts(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("GetTopProducts returned error: %v", err)
	}
	if len(top) != 5 {
		t.Fatalf("got %d, want 5", len(top))
	}
}

func TestMonthBuckets(t *testing.T) {
	now := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	starts, end := monthBuckets(now, 6)
	var labels []string
	for _, s := range starts {
		labels = append(labels, s.Format("Jan 2006"))
	}
	want := []string{"Sep 2024", "Oct 2024", "Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("labels: got %v want %v", labels, want)
	}
	if !end.Equal(now) {
		t.Fatalf("end: got %s", end)
	}
}

func TestMonthlySales(t *testing.T) {
	f := newAnalyticsFixture(t)
	f.as.now = func() time.Time { return time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	seller := mustUser(t, f.us, "monthly")

	insert := func(price float64, created time.Time, soldAt *time.Time) {
		t.Helper()
		var sold any
		if soldAt != nil {
			sold = database.FormatTime(*soldAt)
		}
		_, err := f.ps.db.ExecContext(ctx, `
			INSERT INTO products (id, name, category, price, item_condition, description, images_json,
			                      seller_id, seller_name, seller_email, is_sold, sold_at, created_at, updated_at)
			VALUES (?, 'x', 'Electronics', ?, 'New', '', '["a.jpg"]', ?, 'n', 'e', ?, ?, ?, ?)`,
			uuid.New().String(), price, seller.ID, soldAt != nil, sold,
			database.FormatTime(created), database.FormatTime(created))
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	at := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 10, 0, 0, 0, time.UTC) }
	ptr := func(t time.Time) *time.Time { return &t }

	insert(100, at(1, 5), nil)             // January: listing only
	insert(200, at(3, 31), ptr(at(4, 1)))  // listed March, sold April
	insert(300, at(6, 1), ptr(at(6, 2)))   // June both
	insert(500, at(6, 25), nil)            // after now
	insert(600, at(5, 31), ptr(at(5, 31))) // May both
	insert(400, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), nil)

	got, err := f.as.GetMonthlySales(ctx, seller.ID)
	if err != nil {
		t.Fatalf("GetMonthlySales returned error: %v", err)
	}
	want := []models.MonthlySales{
		{Month: "Jan 2025", Listings: 1},
		{Month: "Feb 2025"},
		{Month: "Mar 2025", Listings: 1},
		{Month: "Apr 2025", Sold: 1, Revenue: 200},
		{Month: "May 2025", Listings: 1, Sold: 1, Revenue: 600},
		{Month: "Jun 2025", Listings: 1, Sold: 1, Revenue: 300},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("monthly sales:\n got %+v\nwant %+v", got, want)
	}
}
