package instructors

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/school-bot/internal/domain/economics"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, id int64) (*Instructor, error) {
	return r.one(ctx, `
		SELECT id, telegram_id, name, rate_kind, rate_value, active, created_at
		FROM instructors WHERE id = $1
	`, id)
}

func (r *Repo) GetByTelegramID(ctx context.Context, tgID int64) (*Instructor, error) {
	return r.one(ctx, `
		SELECT id, telegram_id, name, rate_kind, rate_value, active, created_at
		FROM instructors WHERE telegram_id = $1
	`, tgID)
}

func (r *Repo) one(ctx context.Context, q string, arg any) (*Instructor, error) {
	row := r.pool.QueryRow(ctx, q, arg)
	var i Instructor
	if err := row.Scan(&i.ID, &i.TelegramID, &i.Name, &i.RateKind, &i.RateValue, &i.Active, &i.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

func (r *Repo) ListActive(ctx context.Context) ([]Instructor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, telegram_id, name, rate_kind, rate_value, active, created_at
		FROM instructors WHERE active = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Instructor
	for rows.Next() {
		var i Instructor
		if err := rows.Scan(&i.ID, &i.TelegramID, &i.Name, &i.RateKind, &i.RateValue, &i.Active, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, i Instructor) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO instructors (telegram_id, name, rate_kind, rate_value, active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, i.TelegramID, i.Name, i.RateKind, i.RateValue, i.Active).Scan(&id)
	return id, err
}

// SetRate меняет «живую» ставку. Снимки в существующих занятиях не трогаем.
func (r *Repo) SetRate(ctx context.Context, id int64, rate economics.Rate) error {
	_, err := r.pool.Exec(ctx, `UPDATE instructors SET rate_kind=$2, rate_value=$3 WHERE id=$1`,
		id, string(rate.Kind), rate.Value)
	return err
}
