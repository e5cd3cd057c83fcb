package branch

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/lubinda/stockline-backend/internal/modules/account"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL branch repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateBranch(ctx context.Context, b *Branch) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO branches (id, name, location, status)
		VALUES ($1, $2, $3, $4)`,
		b.ID, b.Name, b.Location, b.Status)
	return err
}

func (r *postgresRepository) GetBranchByID(ctx context.Context, id uuid.UUID) (*Branch, error) {
	return r.scanBranch(r.db.QueryRowContext(ctx, `
		SELECT id, name, location, status, created_at, updated_at
		FROM branches WHERE id=$1`, id))
}

func (r *postgresRepository) GetBranchByLocation(ctx context.Context, location string) (*Branch, error) {
	return r.scanBranch(r.db.QueryRowContext(ctx, `
		SELECT id, name, location, status, created_at, updated_at
		FROM branches WHERE location=$1`, location))
}

func (r *postgresRepository) ListBranches(ctx context.Context) ([]*Branch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, status, created_at, updated_at
		FROM branches ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*Branch
	for rows.Next() {
		b := &Branch{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.Status,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (r *postgresRepository) UpdateBranch(ctx context.Context, b *Branch) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE branches SET name=$1, location=$2, updated_at=$3 WHERE id=$4`,
		b.Name, b.Location, time.Now(), b.ID)
	return err
}

func (r *postgresRepository) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id=$1`, id)
	return err
}

func (r *postgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status BranchStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE branches SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepository) ListMembers(ctx context.Context, branchID uuid.UUID) ([]*Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, role
		FROM accounts WHERE branch_id=$1 ORDER BY email ASC`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresRepository) ClearMembers(ctx context.Context, branchID uuid.UUID) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET branch_id=NULL, updated_at=$1 WHERE branch_id=$2`,
		time.Now(), branchID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *postgresRepository) UpdateMemberRoles(ctx context.Context, branchID uuid.UUID, role account.Role) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET role=$1, updated_at=$2 WHERE branch_id=$3`,
		role, time.Now(), branchID)
	return err
}

func (r *postgresRepository) scanBranch(row *sql.Row) (*Branch, error) {
	b := &Branch{}
	err := row.Scan(&b.ID, &b.Name, &b.Location, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}
