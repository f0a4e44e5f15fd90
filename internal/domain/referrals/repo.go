package referrals

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByCode(ctx context.Context, code string) (*Referral, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, kind, value, active, created_at
		FROM referrals WHERE code = $1 AND active = TRUE
	`, code)

	var ref Referral
	if err := row.Scan(&ref.ID, &ref.Code, &ref.Kind, &ref.Value, &ref.Active, &ref.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *Repo) Create(ctx context.Context, ref Referral) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO referrals (code, kind, value, active)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, ref.Code, ref.Kind, ref.Value, ref.Active).Scan(&id)
	return id, err
}
