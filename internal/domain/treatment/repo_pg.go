package treatment

import (
	"context"
	"encoding/json"
	"errors"

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

const treatmentCols = `id, farmer_id, animal_id, vet_id, symptoms, notes, status, medicines,
	treatment_start_date, withdrawal_ends_on, is_withdrawal_completed,
	is_flagged_violation, violation_reason, prescription_path, report_paths,
	created_at, updated_at`

func (r *repoPG) scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment
	var medicines []byte
	err := row.Scan(&t.ID, &t.FarmerID, &t.AnimalID, &t.VetID, &t.Symptoms, &t.Notes,
		&t.Status, &medicines, &t.TreatmentStartDate, &t.WithdrawalEndsOn,
		&t.IsWithdrawalCompleted, &t.IsFlaggedViolation, &t.ViolationReason,
		&t.PrescriptionPath, &t.ReportPaths, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(medicines) > 0 {
		if err := json.Unmarshal(medicines, &t.Medicines); err != nil {
			return nil, err
		}
	}
	if t.Medicines == nil {
		t.Medicines = []PrescribedMedicine{}
	}
	return &t, nil
}

func (r *repoPG) Create(ctx context.Context, t *Treatment) error {
	t.ID = uuid.New()
	if t.Symptoms == nil {
		t.Symptoms = []string{}
	}
	medicines, err := json.Marshal([]PrescribedMedicine{})
	if err != nil {
		return err
	}
	err = r.conn(ctx).QueryRow(ctx, `
		INSERT INTO treatment (id, farmer_id, animal_id, symptoms, notes, status, medicines)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		t.ID, t.FarmerID, t.AnimalID, t.Symptoms, t.Notes, StatusPending, medicines).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	t.Status = StatusPending
	t.Medicines = []PrescribedMedicine{}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	t, err := r.scanTreatment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+treatmentCols+` FROM treatment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTreatmentNotFound
	}
	return t, err
}

// Diagnose performs the pending -> diagnosed transition as a single
// conditional UPDATE. Two vets racing on the same treatment cannot both
// succeed: whichever statement matches the pending row wins, the other sees
// zero rows and is told the case is already diagnosed.
func (r *repoPG) Diagnose(ctx context.Context, id uuid.UUID, u DiagnosisUpdate) (*Treatment, error) {
	medicines, err := json.Marshal(u.Medicines)
	if err != nil {
		return nil, err
	}

	t, err := r.scanTreatment(r.conn(ctx).QueryRow(ctx, `
		UPDATE treatment
		SET vet_id = $2, medicines = $3, notes = $4, status = $5,
			treatment_start_date = $6, withdrawal_ends_on = $7, updated_at = NOW()
		WHERE id = $1 AND status = $8
		RETURNING `+treatmentCols,
		id, u.VetID, medicines, u.Notes, StatusDiagnosed,
		u.TreatmentStartDate, u.WithdrawalEndsOn, StatusPending))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No pending row matched: distinguish a lost race from an unknown id.
	var status string
	err = r.conn(ctx).QueryRow(ctx, `SELECT status FROM treatment WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrAlreadyDiagnosed
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Treatment, error) {
	defer rows.Close()
	var treatments []*Treatment
	for rows.Next() {
		t, err := r.scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		treatments = append(treatments, t)
	}
	return treatments, rows.Err()
}

func (r *repoPG) ListByAnimal(ctx context.Context, animalID uuid.UUID, f VisibilityFilter) ([]*Treatment, error) {
	if f.VetID != nil {
		rows, err := r.conn(ctx).Query(ctx, `
			SELECT `+treatmentCols+` FROM treatment
			WHERE animal_id = $1 AND (status = $2 OR vet_id = $3)
			ORDER BY created_at DESC`, animalID, StatusPending, *f.VetID)
		if err != nil {
			return nil, err
		}
		return r.collect(rows)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+treatmentCols+` FROM treatment
		WHERE animal_id = $1
		ORDER BY created_at DESC`, animalID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListByFarmer(ctx context.Context, farmerID uuid.UUID, f VisibilityFilter) ([]*Treatment, error) {
	if f.VetID != nil {
		rows, err := r.conn(ctx).Query(ctx, `
			SELECT `+treatmentCols+` FROM treatment
			WHERE farmer_id = $1 AND (status = $2 OR vet_id = $3)
			ORDER BY created_at DESC`, farmerID, StatusPending, *f.VetID)
		if err != nil {
			return nil, err
		}
		return r.collect(rows)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+treatmentCols+` FROM treatment
		WHERE farmer_id = $1
		ORDER BY created_at DESC`, farmerID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}
