package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/models"
)

// WishlistServiceProvider defines the interface for wishlist services.
type WishlistServiceProvider interface {
	GetWishlist(ctx context.Context, userID string) ([]models.Product, error)
	AddToWishlist(ctx context.Context, userID, productID string) (models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
	IsInWishlist(ctx context.Context, userID, productID string) (bool, error)
}

// WishlistService provides business logic for saved products.
type WishlistService struct {
	db       *database.DB
	products ProductServiceProvider
	now      func() time.Time
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(db *database.DB, products ProductServiceProvider) *WishlistService {
	return &WishlistService{db: db, products: products, now: time.Now}
}

// GetWishlist resolves the user's saved entries to full product records,
// most recently saved first.
func (s *WishlistService) GetWishlist(ctx context.Context, userID string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.category, p.price, p.item_condition, p.description, p.images_json,
		       p.seller_id, p.seller_name, p.seller_email, p.is_sold, p.sold_at, p.created_at, p.updated_at
		FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = ?
		ORDER BY w.created_at DESC, w.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return scanProducts(rows)
}

// AddToWishlist saves productID for userID. The (user, product) pair is
// unique; a second add reports ErrDuplicate.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID, productID string) (models.WishlistItem, error) {
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return models.WishlistItem{}, err
	}

	item := models.WishlistItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO wishlist (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, product_id) DO NOTHING",
		item.ID, item.UserID, item.ProductID, database.FormatTime(item.CreatedAt),
	)
	if err != nil {
		return models.WishlistItem{}, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.WishlistItem{}, err
	}
	if n == 0 {
		return models.WishlistItem{}, duplicate("Product already in wishlist")
	}
	return item, nil
}

// RemoveFromWishlist deletes the (user, product) pair.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM wishlist WHERE user_id = ? AND product_id = ?", userID, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Product not in wishlist")
	}
	return nil
}

// IsInWishlist reports whether userID has saved productID.
func (s *WishlistService) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wishlist WHERE user_id = ? AND product_id = ?", userID, productID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
