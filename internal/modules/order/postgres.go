package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, account_id, product_id, quantity, total_amount, shipping_address, order_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.AccountID, o.ProductID, o.Quantity, o.TotalAmount, o.ShippingAddress, o.Status)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, product_id, quantity, total_amount, shipping_address, order_status, created_at, updated_at
		FROM orders WHERE id=$1`, id).Scan(
		&o.ID, &o.AccountID, &o.ProductID, &o.Quantity, &o.TotalAmount,
		&o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetDetailed(ctx context.Context, id uuid.UUID) (*Order, error) {
	o := &Order{Account: &AccountSummary{}, Product: &ProductSummary{}}
	err := r.db.QueryRowContext(ctx, `
		SELECT o.id, o.account_id, o.product_id, o.quantity, o.total_amount,
		       o.shipping_address, o.order_status, o.created_at, o.updated_at,
		       a.id, a.email, p.id, p.name, p.price
		FROM orders o
		JOIN accounts a ON a.id = o.account_id
		JOIN products p ON p.id = o.product_id
		WHERE o.id=$1`, id).Scan(
		&o.ID, &o.AccountID, &o.ProductID, &o.Quantity, &o.TotalAmount,
		&o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&o.Account.ID, &o.Account.Email,
		&o.Product.ID, &o.Product.Name, &o.Product.Price)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetStatusForAccount(ctx context.Context, id, accountID uuid.UUID) (Status, error) {
	var status Status
	err := r.db.QueryRowContext(ctx,
		`SELECT order_status FROM orders WHERE id=$1 AND account_id=$2`,
		id, accountID).Scan(&status)
	return status, err
}

func (r *postgresRepo) ListByStatuses(ctx context.Context, statuses []Status) ([]*Order, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.account_id, o.product_id, o.quantity, o.total_amount,
		       o.shipping_address, o.order_status, o.created_at, o.updated_at,
		       a.id, a.email, p.id, p.name, p.price
		FROM orders o
		JOIN accounts a ON a.id = o.account_id
		JOIN products p ON p.id = o.product_id
		WHERE o.order_status = ANY($1)
		ORDER BY o.created_at DESC`, pq.Array(values))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o := &Order{Account: &AccountSummary{}, Product: &ProductSummary{}}
		if err := rows.Scan(
			&o.ID, &o.AccountID, &o.ProductID, &o.Quantity, &o.TotalAmount,
			&o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt,
			&o.Account.ID, &o.Account.Email,
			&o.Product.ID, &o.Product.Name, &o.Product.Price); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.account_id, o.product_id, o.quantity, o.total_amount,
		       o.shipping_address, o.order_status, o.created_at, o.updated_at,
		       p.id, p.name, p.price
		FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE o.account_id=$1 AND o.order_status <> 'cancelled'
		ORDER BY o.created_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o := &Order{Product: &ProductSummary{}}
		if err := rows.Scan(
			&o.ID, &o.AccountID, &o.ProductID, &o.Quantity, &o.TotalAmount,
			&o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt,
			&o.Product.ID, &o.Product.Name, &o.Product.Price); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) UpdateOrder(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET shipping_address=$1, order_status=$2, updated_at=$3
		WHERE id=$4`,
		o.ShippingAddress, o.Status, time.Now(), o.ID)
	return err
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET order_status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}
