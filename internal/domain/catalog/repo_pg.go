package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herdsafe/herdsafe/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const medicineCols = `id, name, dosage, route, frequency, duration_days, withdrawal_period_days, created_at, updated_at`

func (r *repoPG) scanMedicine(row pgx.Row) (*AuthorizedMedicine, error) {
	var m AuthorizedMedicine
	err := row.Scan(&m.ID, &m.Name, &m.Dosage, &m.Route, &m.Frequency,
		&m.DurationDays, &m.WithdrawalPeriodDays, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *AuthorizedMedicine) error {
	m.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO authorized_medicine (id, name, dosage, route, frequency, duration_days, withdrawal_period_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Dosage, m.Route, m.Frequency, m.DurationDays, m.WithdrawalPeriodDays).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*AuthorizedMedicine, error) {
	return r.scanMedicine(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medicineCols+` FROM authorized_medicine WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *AuthorizedMedicine) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE authorized_medicine
		SET name=$2, dosage=$3, route=$4, frequency=$5, duration_days=$6,
			withdrawal_period_days=$7, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Route, m.Frequency, m.DurationDays, m.WithdrawalPeriodDays)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*AuthorizedMedicine, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM authorized_medicine`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+medicineCols+` FROM authorized_medicine
		ORDER BY name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var medicines []*AuthorizedMedicine
	for rows.Next() {
		m, err := r.scanMedicine(rows)
		if err != nil {
			return nil, 0, err
		}
		medicines = append(medicines, m)
	}
	return medicines, total, rows.Err()
}
