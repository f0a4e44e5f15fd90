package payments

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) AddBookingPayment(ctx context.Context, bookingID int64, amount float64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payments (booking_id, amount) VALUES ($1,$2) RETURNING id
	`, bookingID, amount).Scan(&id)
	return id, err
}

func (r *Repo) AddInstructorPayout(ctx context.Context, instructorID int64, amount float64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payments (instructor_id, amount) VALUES ($1,$2) RETURNING id
	`, instructorID, amount).Scan(&id)
	return id, err
}

// SumForBooking — сколько уже оплачено по букингу.
func (r *Repo) SumForBooking(ctx context.Context, bookingID int64) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payments WHERE booking_id = $1
	`, bookingID).Scan(&sum)
	return sum, err
}

// SumForInstructor — сколько уже выплачено инструктору.
func (r *Repo) SumForInstructor(ctx context.Context, instructorID int64) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payments WHERE instructor_id = $1
	`, instructorID).Scan(&sum)
	return sum, err
}
