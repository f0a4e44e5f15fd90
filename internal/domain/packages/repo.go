package packages

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, id int64) (*SchoolPackage, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, price_unit, currency, duration_target_min,
		       participant_capacity, equipment_capacity, equipment_category, active, created_at
		FROM school_packages WHERE id = $1
	`, id)

	var p SchoolPackage
	if err := row.Scan(&p.ID, &p.Name, &p.PriceUnit, &p.Currency, &p.DurationTargetMin,
		&p.ParticipantCapacity, &p.EquipmentCapacity, &p.EquipmentCategory, &p.Active, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListActive(ctx context.Context) ([]SchoolPackage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price_unit, currency, duration_target_min,
		       participant_capacity, equipment_capacity, equipment_category, active, created_at
		FROM school_packages WHERE active = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SchoolPackage
	for rows.Next() {
		var p SchoolPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceUnit, &p.Currency, &p.DurationTargetMin,
			&p.ParticipantCapacity, &p.EquipmentCapacity, &p.EquipmentCategory, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, p SchoolPackage) (int64, error) {
	const q = `
		INSERT INTO school_packages
			(name, price_unit, currency, duration_target_min,
			 participant_capacity, equipment_capacity, equipment_category, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, q, p.Name, p.PriceUnit, p.Currency, p.DurationTargetMin,
		p.ParticipantCapacity, p.EquipmentCapacity, p.EquipmentCategory, p.Active).Scan(&id)
	return id, err
}

func (r *Repo) CreateRequest(ctx context.Context, sp StudentPackage) (int64, error) {
	const q = `
		INSERT INTO student_packages (package_id, referral_id, contact_name, participants, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, q, sp.PackageID, sp.ReferralID, sp.ContactName, sp.Participants, sp.Status).Scan(&id)
	return id, err
}

func (r *Repo) SetRequestStatus(ctx context.Context, id int64, status RequestStatus) error {
	_, err := r.pool.Exec(ctx, `UPDATE student_packages SET status=$2 WHERE id=$1`, id, status)
	return err
}
