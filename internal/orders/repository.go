package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// RepoInterface is consumed by the webhook handler and the outbox poller.
type RepoInterface interface {
	MirrorOrder(ctx context.Context, order *Order) error
	GetByPlatformID(ctx context.Context, platformID int64) (*Order, error)
	ListByEmail(ctx context.Context, email string) ([]*Order, error)
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsPublished(ctx context.Context, id int64) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// MirrorOrder stores the order copy and its outbox event in one transaction.
// Redelivered webhooks for an already-mirrored order are accepted silently.
func (r *Repository) MirrorOrder(ctx context.Context, order *Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.MirroredAt = time.Now()

	items, err := json.Marshal(order.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO mirrored_orders
			(id, platform_id, order_number, email, currency, total_price, line_items, placed_at, mirrored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (platform_id) DO NOTHING`,
		order.ID, order.PlatformID, order.OrderNumber, order.Email, order.Currency,
		order.TotalPrice.String(), items, order.PlacedAt, order.MirroredAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if inserted == 0 {
		// Duplicate delivery, nothing new to publish.
		return tx.Commit()
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders_outbox (aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, now())`,
		order.ID.String(), "order.mirrored", payload)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetByPlatformID(ctx context.Context, platformID int64) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, platform_id, order_number, email, currency, total_price, line_items, placed_at, mirrored_at
		FROM mirrored_orders WHERE platform_id = $1`, platformID)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (r *Repository) ListByEmail(ctx context.Context, email string) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, platform_id, order_number, email, currency, total_price, line_items, placed_at, mirrored_at
		FROM mirrored_orders WHERE email = $1
		ORDER BY placed_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return out, nil
}

func (r *Repository) GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM orders_outbox
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
	}
	return events, nil
}

func (r *Repository) MarkEventAsPublished(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders_outbox SET published_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark event as published: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var order Order
	var total string
	var items []byte
	err := row.Scan(&order.ID, &order.PlatformID, &order.OrderNumber, &order.Email,
		&order.Currency, &total, &items, &order.PlacedAt, &order.MirroredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.TotalPrice, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total_price %q: %w", total, err)
	}
	if err := json.Unmarshal(items, &order.LineItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}
	return &order, nil
}
