package inventory

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL inventory repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateInventory(ctx context.Context, inv *Inventory) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventories (id, product_id, quantity, reorder_point)
		VALUES ($1, $2, $3, $4)`,
		inv.ID, inv.ProductID, inv.Quantity, inv.ReorderPoint)
	return err
}

func (r *postgresRepo) GetByProduct(ctx context.Context, productID uuid.UUID) (*Inventory, error) {
	inv := &Inventory{}
	var lastAlert sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, reorder_point, last_reorder_alert, created_at, updated_at
		FROM inventories WHERE product_id=$1`, productID).Scan(
		&inv.ID, &inv.ProductID, &inv.Quantity, &inv.ReorderPoint,
		&lastAlert, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastAlert.Valid {
		inv.LastReorderAlert = &lastAlert.Time
	}
	return inv, nil
}

// DecrementStock is the one place stock is reserved. The quantity guard
// lives in the WHERE clause so two concurrent debits of the last unit can
// never both succeed.
func (r *postgresRepo) DecrementStock(ctx context.Context, productID uuid.UUID, amount int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventories
		SET quantity = quantity - $2, updated_at = $3
		WHERE product_id = $1 AND quantity >= $2`,
		productID, amount, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *postgresRepo) IncrementStock(ctx context.Context, productID uuid.UUID, amount int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventories
		SET quantity = quantity + $2, updated_at = $3
		WHERE product_id = $1`,
		productID, amount, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *postgresRepo) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventories i
		SET quantity = $2, updated_at = $3
		FROM products p
		WHERE i.product_id = p.id AND p.id = $1 AND p.status = 'active'`,
		productID, quantity, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *postgresRepo) SetReorderPoint(ctx context.Context, productID uuid.UUID, value int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventories
		SET reorder_point = $2, updated_at = $3
		WHERE product_id = $1`,
		productID, value, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]*ListItem, error) {
	return r.queryItems(ctx, `
		SELECT i.id, i.product_id, i.quantity, i.reorder_point, i.last_reorder_alert,
		       i.created_at, i.updated_at, p.name, p.price
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active'
		ORDER BY p.name ASC`)
}

func (r *postgresRepo) ListLowStock(ctx context.Context) ([]*ListItem, error) {
	return r.queryItems(ctx, `
		SELECT i.id, i.product_id, i.quantity, i.reorder_point, i.last_reorder_alert,
		       i.created_at, i.updated_at, p.name, p.price
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active' AND i.quantity <= i.reorder_point
		ORDER BY i.quantity ASC`)
}

func (r *postgresRepo) GetAvailability(ctx context.Context, productID uuid.UUID) (*Availability, error) {
	av := &Availability{}
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, COALESCE(i.quantity, 0), COALESCE(i.reorder_point, 0)
		FROM products p
		LEFT JOIN inventories i ON i.product_id = p.id
		WHERE p.id = $1 AND p.status = 'active'`, productID).Scan(
		&av.ProductID, &av.Name, &av.Quantity, &av.ReorderPoint)
	if err != nil {
		return nil, err
	}
	return av, nil
}

func (r *postgresRepo) queryItems(ctx context.Context, query string, args ...interface{}) ([]*ListItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ListItem
	for rows.Next() {
		item := &ListItem{}
		var lastAlert sql.NullTime
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.Quantity, &item.ReorderPoint,
			&lastAlert, &item.CreatedAt, &item.UpdatedAt,
			&item.ProductName, &item.ProductPrice); err != nil {
			return nil, err
		}
		if lastAlert.Valid {
			item.LastReorderAlert = &lastAlert.Time
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
