package database

import (
	"context"
	"testing"
	"time"
)

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	got := pg.Rebind("SELECT * FROM products WHERE seller_id = ? AND price >= ? LIMIT ?")
	want := "SELECT * FROM products WHERE seller_id = $1 AND price >= $2 LIMIT $3"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	lite := &DB{Dialect: SQLite}
	if q := "SELECT ?"; lite.Rebind(q) != q {
		t.Fatalf("sqlite query should be left untouched")
	}
}

func TestTimeLayoutSortsLexically(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	earlier := FormatTime(base)
	later := FormatTime(base.Add(1500 * time.Microsecond))
	if len(earlier) != len(later) {
		t.Fatalf("layout is not fixed width: %q vs %q", earlier, later)
	}
	if !(earlier < later) {
		t.Fatalf("expected %q < %q", earlier, later)
	}

	parsed, err := ParseTime(later)
	if err != nil {
		t.Fatalf("ParseTime returned error: %v", err)
	}
	if !parsed.Equal(base.Add(1500 * time.Microsecond)) {
		t.Fatalf("round trip mismatch: %s", parsed)
	}
}

func TestMigrateInMemory(t *testing.T) {
	db, err := New("sqlite://:memory:")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	// Idempotent.
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate returned error: %v", err)
	}

	for _, table := range []string{"users", "products", "wishlist", "chat_history"} {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			t.Fatalf("table %s not queryable: %v", table, err)
		}
	}
}

func TestLowerFoldsUnicodeOnSQLite(t *testing.T) {
	db, err := New("sqlite://:memory:")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer db.Close()

	cases := map[string]string{
		"Émile Zola":    "émile zola",
		"ÜBER":          "über",
		"Plain ASCII":   "plain ascii",
		"ЖУРНАЛ книги": "журнал книги",
	}
	for in, want := range cases {
		var got string
		if err := db.QueryRowContext(context.Background(), "SELECT "+db.Lower("?"), in).Scan(&got); err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}

	if pg := (&DB{Dialect: Postgres}); pg.Lower("name") != "LOWER(name)" {
		t.Fatalf("postgres fold: got %q", pg.Lower("name"))
	}
}
