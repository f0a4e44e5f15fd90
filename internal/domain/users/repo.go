package users

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByTelegramID(ctx context.Context, tgID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, telegram_id, username, first_name, last_name, role, status, created_at, updated_at
		FROM users WHERE telegram_id = $1
	`, tgID)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UpsertFromTelegram Upsert по Telegram-профилю. Если пользователь уже admin — не понижаем роль.
func (r *Repo) UpsertFromTelegram(ctx context.Context, tg Telegram, role Role) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (telegram_id, username, first_name, last_name, role, status)
		VALUES ($1,$2,$3,$4,$5,'pending')
		ON CONFLICT (telegram_id)
		DO UPDATE SET
			username   = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			role       = CASE WHEN users.role = 'admin' THEN users.role ELSE EXCLUDED.role END,
			updated_at = now()
		RETURNING id, telegram_id, username, first_name, last_name, role, status, created_at, updated_at
	`, tg.ID, tg.Username, tg.FirstName, tg.LastName, role)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Approve подтверждает пользователя и фиксирует роль.
func (r *Repo) Approve(ctx context.Context, tgID int64, role Role) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET role=$2, status='approved', updated_at=now()
		WHERE telegram_id=$1
		RETURNING id, telegram_id, username, first_name, last_name, role, status, created_at, updated_at
	`, tgID, role)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Reject(ctx context.Context, tgID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET status='rejected', updated_at=now() WHERE telegram_id=$1
	`, tgID)
	return err
}
