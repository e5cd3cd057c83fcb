package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL product repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, status, available)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Description, p.Price, p.Status, p.Available)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, status, available, created_at, updated_at
		FROM products WHERE id=$1`, id))
}

func (r *postgresRepo) GetByName(ctx context.Context, name string) (*Product, error) {
	return r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, status, available, created_at, updated_at
		FROM products WHERE name=$1`, name))
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Product, error) {
	query := `SELECT id, name, description, price, status, available, created_at, updated_at
	          FROM products`
	if activeOnly {
		query += ` WHERE status='active'`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price,
			&p.Status, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, updated_at=$4
		WHERE id=$5`,
		p.Name, p.Description, p.Price, time.Now(), p.ID)
	return err
}

func (r *postgresRepo) SetStatus(ctx context.Context, id uuid.UUID, status ProductStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepo) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET available=$1, updated_at=$2 WHERE id=$3`,
		available, time.Now(), id)
	return err
}

func (r *postgresRepo) scanProduct(row *sql.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price,
		&p.Status, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
