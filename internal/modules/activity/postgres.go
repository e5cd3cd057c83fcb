package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL activity repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, account_id, action, details)
		VALUES ($1, $2, $3, $4)`,
		e.ID, e.AccountID, e.Action, e.Details)
	return err
}

func (r *postgresRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, f Filters) ([]*Entry, error) {
	query := `SELECT id, account_id, action, details, created_at
	          FROM activity_log WHERE account_id=$1`
	args := []interface{}{accountID}

	if f.Action != "" {
		args = append(args, "%"+f.Action+"%")
		query += fmt.Sprintf(` AND action LIKE $%d`, len(args))
	}
	if !f.StartDate.IsZero() || !f.EndDate.IsZero() {
		end := f.EndDate
		if end.IsZero() {
			end = time.Now()
		}
		args = append(args, f.StartDate)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
		args = append(args, end)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepository) PruneOldest(ctx context.Context, accountID uuid.UUID, keep int) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM activity_log
		WHERE account_id=$1 AND id NOT IN (
			SELECT id FROM activity_log
			WHERE account_id=$1
			ORDER BY created_at DESC
			LIMIT $2
		)`, accountID, keep)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
