package registry

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

// =========== Farmer Repository ===========

type farmerRepoPG struct{ pool *pgxpool.Pool }

func NewFarmerRepoPG(pool *pgxpool.Pool) FarmerRepository {
	return &farmerRepoPG{pool: pool}
}

func (r *farmerRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const farmerCols = `id, subject, name, phone, village, district, is_verified, created_at, updated_at`

func (r *farmerRepoPG) scanFarmer(row pgx.Row) (*Farmer, error) {
	var f Farmer
	err := row.Scan(&f.ID, &f.Subject, &f.Name, &f.Phone, &f.Village, &f.District,
		&f.IsVerified, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *farmerRepoPG) Create(ctx context.Context, f *Farmer) error {
	f.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO farmer (id, subject, name, phone, village, district, is_verified)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		f.ID, f.Subject, f.Name, f.Phone, f.Village, f.District, f.IsVerified).
		Scan(&f.CreatedAt, &f.UpdatedAt)
}

func (r *farmerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Farmer, error) {
	return r.scanFarmer(r.conn(ctx).QueryRow(ctx, `SELECT `+farmerCols+` FROM farmer WHERE id = $1`, id))
}

func (r *farmerRepoPG) GetBySubject(ctx context.Context, subject string) (*Farmer, error) {
	return r.scanFarmer(r.conn(ctx).QueryRow(ctx, `SELECT `+farmerCols+` FROM farmer WHERE subject = $1`, subject))
}

// =========== Vet Repository ===========

type vetRepoPG struct{ pool *pgxpool.Pool }

func NewVetRepoPG(pool *pgxpool.Pool) VetRepository {
	return &vetRepoPG{pool: pool}
}

func (r *vetRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const vetCols = `id, subject, name, phone, license_number, specialization, is_verified, created_at, updated_at`

func (r *vetRepoPG) scanVet(row pgx.Row) (*Vet, error) {
	var v Vet
	err := row.Scan(&v.ID, &v.Subject, &v.Name, &v.Phone, &v.LicenseNumber,
		&v.Specialization, &v.IsVerified, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vetRepoPG) Create(ctx context.Context, v *Vet) error {
	v.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO vet (id, subject, name, phone, license_number, specialization, is_verified)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		v.ID, v.Subject, v.Name, v.Phone, v.LicenseNumber, v.Specialization, v.IsVerified).
		Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *vetRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Vet, error) {
	return r.scanVet(r.conn(ctx).QueryRow(ctx, `SELECT `+vetCols+` FROM vet WHERE id = $1`, id))
}

func (r *vetRepoPG) GetBySubject(ctx context.Context, subject string) (*Vet, error) {
	return r.scanVet(r.conn(ctx).QueryRow(ctx, `SELECT `+vetCols+` FROM vet WHERE subject = $1`, subject))
}

// =========== Animal Repository ===========

type animalRepoPG struct{ pool *pgxpool.Pool }

func NewAnimalRepoPG(pool *pgxpool.Pool) AnimalRepository {
	return &animalRepoPG{pool: pool}
}

func (r *animalRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const animalCols = `id, farmer_id, species, breed, tag_number, age, gender, weight,
	is_lactating, daily_milk_yield, pregnancy_status, profile_photo_path,
	treatment_ids, is_active, created_at, updated_at`

func (r *animalRepoPG) scanAnimal(row pgx.Row) (*Animal, error) {
	var a Animal
	err := row.Scan(&a.ID, &a.FarmerID, &a.Species, &a.Breed, &a.TagNumber, &a.Age,
		&a.Gender, &a.Weight, &a.IsLactating, &a.DailyMilkYield, &a.PregnancyStatus,
		&a.ProfilePhotoPath, &a.TreatmentIDs, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *animalRepoPG) Create(ctx context.Context, a *Animal) error {
	a.ID = uuid.New()
	if a.TreatmentIDs == nil {
		a.TreatmentIDs = []string{}
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO animal (id, farmer_id, species, breed, tag_number, age, gender, weight,
			is_lactating, daily_milk_yield, pregnancy_status, profile_photo_path,
			treatment_ids, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		a.ID, a.FarmerID, a.Species, a.Breed, a.TagNumber, a.Age, a.Gender, a.Weight,
		a.IsLactating, a.DailyMilkYield, a.PregnancyStatus, a.ProfilePhotoPath,
		a.TreatmentIDs, a.IsActive).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *animalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Animal, error) {
	return r.scanAnimal(r.conn(ctx).QueryRow(ctx, `SELECT `+animalCols+` FROM animal WHERE id = $1`, id))
}

func (r *animalRepoPG) ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*Animal, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM animal WHERE farmer_id = $1`, farmerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+animalCols+` FROM animal
		WHERE farmer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, farmerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var animals []*Animal
	for rows.Next() {
		a, err := r.scanAnimal(rows)
		if err != nil {
			return nil, 0, err
		}
		animals = append(animals, a)
	}
	return animals, total, rows.Err()
}

func (r *animalRepoPG) AppendTreatmentID(ctx context.Context, animalID uuid.UUID, treatmentID string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE animal
		SET treatment_ids = array_append(treatment_ids, $2), updated_at = NOW()
		WHERE id = $1`, animalID, treatmentID)
	return err
}
