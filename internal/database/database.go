package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver ("pgx")
	"modernc.org/sqlite" // SQLite driver ("sqlite")
)

// Dialect identifies the SQL flavour behind a DB handle.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// TimeLayout is the fixed-width UTC layout every timestamp column uses, so
// that string comparison in SQL matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// sqliteLower is registered on every SQLite connection. The built-in lower()
// only folds ASCII letters.
const sqliteLower = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(sqliteLower, 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
}

// DB wraps a connection pool and rewrites '?' placeholders for Postgres.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// New opens a connection pool from a URL. sqlite://<path> (or a bare path)
// selects SQLite; postgres:// and postgresql:// select pgx.
func New(url string) (*DB, error) {
	var (
		driver, dsn string
		dialect     Dialect
	)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		driver, dsn, dialect = "pgx", url, Postgres
	default:
		path := strings.TrimPrefix(url, "sqlite://")
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		driver, dsn, dialect = "sqlite", path+sep+"_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLite
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite {
		// Single writer; also keeps :memory: databases on one connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

// ExecContext runs a statement after placeholder rewriting.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Rebind(query), args...)
}

// QueryContext runs a query after placeholder rewriting.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Rebind(query), args...)
}

// QueryRowContext runs a single-row query after placeholder rewriting.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Rebind(query), args...)
}

// Lower wraps a SQL expression in a Unicode-aware lower-case fold.
func (db *DB) Lower(expr string) string {
	if db.Dialect == Postgres {
		return "LOWER(" + expr + ")"
	}
	return sqliteLower + "(" + expr + ")"
}

// Rebind converts '?' placeholders to $1, $2, ... for Postgres. Queries in
// this codebase never contain a literal '?' inside string constants.
func (db *DB) Rebind(query string) string {
	if db.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		item_condition TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		-- Store the image URL list as JSON text
		images_json TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		seller_name TEXT NOT NULL,
		seller_email TEXT NOT NULL,
		is_sold BOOLEAN NOT NULL DEFAULT FALSE,
		sold_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_seller ON products (seller_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_created ON products (created_at)`,
	`CREATE TABLE IF NOT EXISTS wishlist (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (user_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wishlist_product ON wishlist (product_id)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_message TEXT NOT NULL,
		ai_response TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_history_user ON chat_history (user_id, created_at)`,
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a TimeLayout value; RFC 3339 is accepted for rows written
// by other tools.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
