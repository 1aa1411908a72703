package withdrawal

import (
	"context"
	"encoding/json"
	"time"

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

// =========== Alert Repository ===========

type alertRepoPG struct{ pool *pgxpool.Pool }

func NewAlertRepoPG(pool *pgxpool.Pool) AlertRepository {
	return &alertRepoPG{pool: pool}
}

func (r *alertRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const alertCols = `id, treatment_id, animal_id, safe_from, alert_sent, created_at`

func (r *alertRepoPG) scanAlert(row pgx.Row) (*WithdrawalAlert, error) {
	var a WithdrawalAlert
	err := row.Scan(&a.ID, &a.TreatmentID, &a.AnimalID, &a.SafeFrom, &a.AlertSent, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *alertRepoPG) Create(ctx context.Context, a *WithdrawalAlert) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO withdrawal_alert (id, treatment_id, animal_id, safe_from, alert_sent)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		a.ID, a.TreatmentID, a.AnimalID, a.SafeFrom, a.AlertSent).
		Scan(&a.CreatedAt)
}

func (r *alertRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*WithdrawalAlert, error) {
	return r.scanAlert(r.conn(ctx).QueryRow(ctx,
		`SELECT `+alertCols+` FROM withdrawal_alert WHERE id = $1`, id))
}

func (r *alertRepoPG) collect(rows pgx.Rows) ([]*WithdrawalAlert, error) {
	defer rows.Close()
	var alerts []*WithdrawalAlert
	for rows.Next() {
		a, err := r.scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *alertRepoPG) ActiveForAnimal(ctx context.Context, animalID uuid.UUID, asOf time.Time) ([]*WithdrawalAlert, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+alertCols+` FROM withdrawal_alert
		WHERE animal_id = $1 AND safe_from > $2
		ORDER BY safe_from DESC`, animalID, asOf)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *alertRepoPG) ActiveForAnimals(ctx context.Context, animalIDs []uuid.UUID, asOf time.Time) ([]*WithdrawalAlert, error) {
	if len(animalIDs) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+alertCols+` FROM withdrawal_alert
		WHERE animal_id = ANY($1) AND safe_from > $2
		ORDER BY safe_from DESC`, animalIDs, asOf)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *alertRepoPG) MarkSent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE withdrawal_alert SET alert_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// =========== Consumer Check Repository ===========

type checkRepoPG struct{ pool *pgxpool.Pool }

func NewConsumerCheckRepoPG(pool *pgxpool.Pool) ConsumerCheckRepository {
	return &checkRepoPG{pool: pool}
}

func (r *checkRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *checkRepoPG) Create(ctx context.Context, c *ConsumerCheck) error {
	c.ID = uuid.New()
	result, err := json.Marshal(c.Result)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO consumer_check (id, farmer_id, animal_id, checked_at, result)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.FarmerID, c.AnimalID, c.CheckedAt, result)
	return err
}

func (r *checkRepoPG) ListByAnimal(ctx context.Context, animalID uuid.UUID, limit, offset int) ([]*ConsumerCheck, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consumer_check WHERE animal_id = $1`, animalID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, farmer_id, animal_id, checked_at, result
		FROM consumer_check
		WHERE animal_id = $1
		ORDER BY checked_at DESC
		LIMIT $2 OFFSET $3`, animalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var checks []*ConsumerCheck
	for rows.Next() {
		var c ConsumerCheck
		var result []byte
		if err := rows.Scan(&c.ID, &c.FarmerID, &c.AnimalID, &c.CheckedAt, &result); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(result, &c.Result); err != nil {
			return nil, 0, err
		}
		checks = append(checks, &c)
	}
	return checks, total, rows.Err()
}
