package account

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL account repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateAccount(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, role, branch_id, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role, a.BranchID, a.Verified)
	return err
}

func (r *postgresRepository) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.scanAccount(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, role, branch_id, verified, created_at, updated_at
		FROM accounts WHERE id = $1`, parsedID))
}

func (r *postgresRepository) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return r.scanAccount(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, role, branch_id, verified, created_at, updated_at
		FROM accounts WHERE email = $1`, email))
}

func (r *postgresRepository) ListAccounts(ctx context.Context) ([]*Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, role, branch_id, verified, created_at, updated_at
		FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a := &Account{}
		var branchID sql.NullString
		if err := rows.Scan(
			&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
			&a.Role, &branchID, &a.Verified, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if branchID.Valid {
			bid, _ := uuid.Parse(branchID.String)
			a.BranchID = &bid
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *postgresRepository) CountAccounts(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

func (r *postgresRepository) UpdateAccount(ctx context.Context, a *Account) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET email=$1, password_hash=$2, first_name=$3, last_name=$4, role=$5, branch_id=$6, verified=$7, updated_at=$8
		WHERE id=$9`,
		a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role, a.BranchID, a.Verified, time.Now(), a.ID)
	return err
}

func (r *postgresRepository) DeleteAccount(ctx context.Context, id string) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id=$1`, parsedID)
	return err
}

func (r *postgresRepository) SetBranch(ctx context.Context, accountID string, branchID *uuid.UUID) error {
	parsedID, err := uuid.Parse(accountID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE accounts SET branch_id=$1, updated_at=$2 WHERE id=$3`,
		branchID, time.Now(), parsedID)
	return err
}

func (r *postgresRepository) scanAccount(row *sql.Row) (*Account, error) {
	a := &Account{}
	var branchID sql.NullString
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Role, &branchID, &a.Verified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if branchID.Valid {
		bid, _ := uuid.Parse(branchID.String)
		a.BranchID = &bid
	}
	return a, nil
}
