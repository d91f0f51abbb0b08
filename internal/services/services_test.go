package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/models"
)

const testDomain = "@muj.manipal.edu"

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New("sqlite://:memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	cur := start.Add(-step)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func mustUser(t *testing.T, us *UserService, local string) models.User {
	t.Helper()
	u, err := us.CreateUser(context.Background(), local+testDomain, "Student "+local, "secret123")
	if err != nil {
		t.Fatalf("CreateUser(%s) returned error: %v", local, err)
	}
	return u
}

func validInput() models.ProductInput {
	return models.ProductInput{
		Name:        "Desk Lamp",
		Category:    "Electronics",
		Price:       100,
		Condition:   "New",
		Description: "Warm light, barely used",
		Images:      []string{"x.jpg"},
	}
}

func mustProduct(t *testing.T, ps *ProductService, seller models.User, in models.ProductInput) models.Product {
	t.Helper()
	p, err := ps.CreateProduct(context.Background(), seller, in)
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	return p
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", duplicate("Email already registered"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatal("duplicate error should match ErrDuplicate through wrapping")
	}
	var de *DetailError
	if !errors.As(err, &de) || de.Detail != "Email already registered" {
		t.Fatalf("detail not preserved: %v", err)
	}
}
