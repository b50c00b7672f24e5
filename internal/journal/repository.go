package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already recorded")
)

// Repository is the local order journal: every order confirmed by the order
// backend is recorded here so the terminal keeps a queryable history.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) RecordOrder(ctx context.Context, order *domain.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal order lines: %w", err)
	}

	query := `
		INSERT INTO orders (id, session_id, room_id, table_id, subtotal, discount, tax, grand_total, lines, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.SessionID,
		order.RoomID,
		order.TableID,
		order.Subtotal.String(),
		order.Discount.String(),
		order.Tax.String(),
		order.GrandTotal.String(),
		string(lines),
		order.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("failed to record order: %w", err)
	}

	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, session_id, room_id, table_id, subtotal, discount, tax, grand_total, lines, created_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `
		SELECT id, session_id, room_id, table_id, subtotal, discount, tax, grand_total, lines, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order      domain.Order
		subtotal   string
		discount   string
		tax        string
		grandTotal string
		lines      string
		createdAt  time.Time
	)

	err := row.Scan(
		&order.ID,
		&order.SessionID,
		&order.RoomID,
		&order.TableID,
		&subtotal,
		&discount,
		&tax,
		&grandTotal,
		&lines,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if order.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("bad subtotal %q: %w", subtotal, err)
	}
	if order.Discount, err = decimal.NewFromString(discount); err != nil {
		return nil, fmt.Errorf("bad discount %q: %w", discount, err)
	}
	if order.Tax, err = decimal.NewFromString(tax); err != nil {
		return nil, fmt.Errorf("bad tax %q: %w", tax, err)
	}
	if order.GrandTotal, err = decimal.NewFromString(grandTotal); err != nil {
		return nil, fmt.Errorf("bad grand total %q: %w", grandTotal, err)
	}
	if err := json.Unmarshal([]byte(lines), &order.Lines); err != nil {
		return nil, fmt.Errorf("bad order lines: %w", err)
	}
	order.CreatedAt = createdAt

	return &order, nil
}
