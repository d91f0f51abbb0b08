package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/models"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 50

	// sellerListingCap bounds the seller listing endpoint.
	sellerListingCap = 100
)

// ProductServiceProvider defines the interface for product services.
type ProductServiceProvider interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) (models.ProductPage, error)
	GetProductByID(ctx context.Context, id string) (models.Product, error)
	GetProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error)
	CreateProduct(ctx context.Context, seller models.User, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, caller models.User, id string, up models.ProductUpdate) (models.Product, error)
	MarkSold(ctx context.Context, caller models.User, id string) error
	DeleteProduct(ctx context.Context, caller models.User, id string) error
}

// ProductService provides business logic for the product catalog.
type ProductService struct {
	db  *database.DB
	now func() time.Time
}

// NewProductService creates a new ProductService.
func NewProductService(db *database.DB) *ProductService {
	return &ProductService{db: db, now: time.Now}
}

const productColumns = `id, name, category, price, item_condition, description, images_json,
		seller_id, seller_name, seller_email, is_sold, sold_at, created_at, updated_at`

// scanProduct is a helper to scan a product from a row or rows object.
func scanProduct(scanner interface{ Scan(...interface{}) error }) (models.Product, error) {
	var p models.Product
	var soldAt sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Condition, &p.Description, &p.ImagesJSON,
		&p.SellerID, &p.SellerName, &p.SellerEmail, &p.IsSold, &soldAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return p, err
	}

	if p.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return p, err
	}
	if soldAt.Valid && soldAt.String != "" {
		t, err := database.ParseTime(soldAt.String)
		if err != nil {
			return p, err
		}
		p.SoldAt = &t
	}

	p.PrepareForAPI()
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()
	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// escapeLike makes user input literal inside a LIKE pattern (ESCAPE '\').
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// normalizeFilter fills defaults and rejects out-of-range paging.
func normalizeFilter(f models.ProductFilter) (models.ProductFilter, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Page < 1 {
		return f, validationError("page must be greater than or equal to 1")
	}
	if f.Limit < 1 || f.Limit > MaxPageLimit {
		return f, validationError("limit must be between 1 and %d", MaxPageLimit)
	}
	return f, nil
}

// buildWhere turns a filter into a WHERE clause and its arguments.
func (s *ProductService) buildWhere(f models.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Condition != "" {
		conds = append(conds, "item_condition = ?")
		args = append(args, f.Condition)
	}
	if f.Search != "" {
		// Both sides are folded by the same function so non-ASCII letters match.
		pattern := s.db.Lower("?")
		conds = append(conds, fmt.Sprintf(`(%s LIKE %s ESCAPE '\' OR %s LIKE %s ESCAPE '\')`,
			s.db.Lower("name"), pattern, s.db.Lower("description"), pattern))
		like := "%" + escapeLike(f.Search) + "%"
		args = append(args, like, like)
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.ExcludeSold {
		conds = append(conds, "is_sold = ?")
		args = append(args, false)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListProducts returns one page of products matching the filter, newest first.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) (models.ProductPage, error) {
	f, err := normalizeFilter(filter)
	if err != nil {
		return models.ProductPage{}, err
	}
	where, args := s.buildWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return models.ProductPage{}, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	query := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, f.Limit, offset)...)
	if err != nil {
		return models.ProductPage{}, fmt.Errorf("failed to list products: %w", err)
	}
	products, err := scanProducts(rows)
	if err != nil {
		return models.ProductPage{}, err
	}

	return models.ProductPage{
		Products: products,
		Total:    total,
		Page:     f.Page,
		Pages:    pageCount(total, f.Limit),
	}, nil
}

// pageCount is ceil(total/limit), with an empty listing reported as one page.
func pageCount(total, limit int) int {
	if total == 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (models.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, notFound("Product not found")
		}
		return models.Product{}, err
	}
	return p, nil
}

// GetProductsBySeller lists a seller's products, newest first.
func (s *ProductService) GetProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE seller_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		sellerID, sellerListingCap)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// CreateProduct validates and stores a new listing owned by seller.
func (s *ProductService) CreateProduct(ctx context.Context, seller models.User, in models.ProductInput) (models.Product, error) {
	if err := validateProductInput(in); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	p := models.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Condition:   in.Condition,
		Description: in.Description,
		Images:      in.Images,
		SellerID:    seller.ID,
		SellerName:  seller.Name,
		SellerEmail: seller.Email,
		IsSold:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.PrepareForSave()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price, item_condition, description, images_json,
		                      seller_id, seller_name, seller_email, is_sold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, p.Price, p.Condition, p.Description, p.ImagesJSON,
		p.SellerID, p.SellerName, p.SellerEmail, p.IsSold, database.FormatTime(now), database.FormatTime(now),
	)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

// getOwned loads a product and checks that caller is its seller.
func (s *ProductService) getOwned(ctx context.Context, caller models.User, id, denied string) (models.Product, error) {
	p, err := s.GetProductByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if p.SellerID != caller.ID {
		return models.Product{}, forbidden(denied)
	}
	return p, nil
}

// UpdateProduct applies the non-nil fields of up. Existence and ownership are
// checked before the fields are validated. updated_at moves only when
// something was applied.
func (s *ProductService) UpdateProduct(ctx context.Context, caller models.User, id string, up models.ProductUpdate) (models.Product, error) {
	current, err := s.getOwned(ctx, caller, id, "You can only edit your own products")
	if err != nil {
		return models.Product{}, err
	}
	if err := validateProductUpdate(up); err != nil {
		return models.Product{}, err
	}

	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if up.Name != nil {
		set("name", *up.Name)
	}
	if up.Category != nil {
		set("category", *up.Category)
	}
	if up.Price != nil {
		set("price", *up.Price)
	}
	if up.Condition != nil {
		set("item_condition", *up.Condition)
	}
	if up.Description != nil {
		set("description", *up.Description)
	}
	if up.Images != nil {
		tmp := models.Product{Images: *up.Images}
		tmp.PrepareForSave()
		set("images_json", tmp.ImagesJSON)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	if up.IsSold != nil {
		set("is_sold", *up.IsSold)
		switch {
		case *up.IsSold && current.SoldAt == nil:
			set("sold_at", database.FormatTime(now))
		case !*up.IsSold:
			set("sold_at", nil)
		}
	}

	if len(sets) == 0 {
		return current, nil
	}
	set("updated_at", database.FormatTime(now))

	query := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.ExecContext(ctx, query, append(args, id)...); err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProductByID(ctx, id)
}

// MarkSold flags the caller's product as sold and stamps sold_at.
func (s *ProductService) MarkSold(ctx context.Context, caller models.User, id string) error {
	if _, err := s.getOwned(ctx, caller, id, "You can only mark your own products as sold"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "UPDATE products SET is_sold = ?, sold_at = ? WHERE id = ?",
		true, database.FormatTime(s.now()), id)
	return err
}

// DeleteProduct removes the caller's product and every wishlist entry
// referencing it.
func (s *ProductService) DeleteProduct(ctx context.Context, caller models.User, id string) error {
	if _, err := s.getOwned(ctx, caller, id, "You can only delete your own products"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM wishlist WHERE product_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete wishlist entries: %w", err)
	}
	return nil
}
