package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/domain/packages"
	"github.com/Spok95/school-bot/internal/domain/referrals"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// GetTree загружает букинг целиком: пакет, реферал заявки, занятия, события.
// Движок расчётов получает уже собранное дерево и к базе не ходит.
func (r *Repo) GetTree(ctx context.Context, id int64) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT b.id, b.request_id, b.participants, b.created_at,
		       p.id, p.name, p.price_unit, p.currency, p.duration_target_min,
		       p.participant_capacity, p.equipment_capacity, p.equipment_category, p.active, p.created_at,
		       rf.id, rf.code, rf.kind, rf.value, rf.active, rf.created_at
		FROM bookings b
		JOIN student_packages sp ON sp.id = b.request_id
		JOIN school_packages p ON p.id = sp.package_id
		LEFT JOIN referrals rf ON rf.id = sp.referral_id
		WHERE b.id = $1
	`, id)

	b, err := scanBookingRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.attachLessons(ctx, []*Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// ListTrees — все букинги, собранные так же, как GetTree. Для сводок.
func (r *Repo) ListTrees(ctx context.Context) ([]*Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.request_id, b.participants, b.created_at,
		       p.id, p.name, p.price_unit, p.currency, p.duration_target_min,
		       p.participant_capacity, p.equipment_capacity, p.equipment_category, p.active, p.created_at,
		       rf.id, rf.code, rf.kind, rf.value, rf.active, rf.created_at
		FROM bookings b
		JOIN student_packages sp ON sp.id = b.request_id
		JOIN school_packages p ON p.id = sp.package_id
		LEFT JOIN referrals rf ON rf.id = sp.referral_id
		ORDER BY b.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLessons(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTreesByInstructor — букинги, где у инструктора есть занятия.
func (r *Repo) ListTreesByInstructor(ctx context.Context, instructorID int64) ([]*Booking, error) {
	all, err := r.ListTrees(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Booking
	for _, b := range all {
		for _, l := range b.Lessons {
			if l.InstructorID == instructorID {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanBookingRow(row rowScanner) (*Booking, error) {
	var (
		b       Booking
		p       packages.SchoolPackage
		refID   *int64
		refCode *string
		refKind *string
		refVal  *float64
		refAct  *bool
		refAt   *time.Time
	)
	if err := row.Scan(
		&b.ID, &b.RequestID, &b.Participants, &b.CreatedAt,
		&p.ID, &p.Name, &p.PriceUnit, &p.Currency, &p.DurationTargetMin,
		&p.ParticipantCapacity, &p.EquipmentCapacity, &p.EquipmentCategory, &p.Active, &p.CreatedAt,
		&refID, &refCode, &refKind, &refVal, &refAct, &refAt,
	); err != nil {
		return nil, err
	}
	b.Package = &p
	if refID != nil {
		b.Referral = &referrals.Referral{
			ID:     *refID,
			Code:   deref(refCode),
			Kind:   economics.RateKind(deref(refKind)),
			Value:  derefF(refVal),
			Active: refAct != nil && *refAct,
		}
		if refAt != nil {
			b.Referral.CreatedAt = *refAt
		}
	}
	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefF(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// attachLessons дособирает занятия и события для набора букингов.
func (r *Repo) attachLessons(ctx context.Context, bs []*Booking) error {
	if len(bs) == 0 {
		return nil
	}
	byID := make(map[int64]*Booking, len(bs))
	ids := make([]int64, 0, len(bs))
	for _, b := range bs {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.booking_id, l.instructor_id, i.name, l.rate_kind, l.rate_value, l.created_at
		FROM lessons l
		JOIN instructors i ON i.id = l.instructor_id
		WHERE l.booking_id = ANY($1)
		ORDER BY l.created_at
	`, ids)
	if err != nil {
		return fmt.Errorf("load lessons: %w", err)
	}
	lessonOwner := map[int64]int64{} // lesson id -> booking id
	for rows.Next() {
		var l Lesson
		var kind string
		if err := rows.Scan(&l.ID, &l.BookingID, &l.InstructorID, &l.InstructorName, &kind, &l.Rate.Value, &l.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		l.Rate.Kind = economics.RateKind(kind)
		if b, ok := byID[l.BookingID]; ok {
			b.Lessons = append(b.Lessons, l)
			lessonOwner[l.ID] = l.BookingID
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(lessonOwner) == 0 {
		return nil
	}

	lessonIDs := make([]int64, 0, len(lessonOwner))
	for id := range lessonOwner {
		lessonIDs = append(lessonIDs, id)
	}
	evRows, err := r.pool.Query(ctx, `
		SELECT id, lesson_id, starts_at, duration_min, status, location, equipment_category, equipment_count
		FROM events
		WHERE lesson_id = ANY($1)
		ORDER BY starts_at
	`, lessonIDs)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	defer evRows.Close()

	events := map[int64][]Event{} // lesson id -> events
	for evRows.Next() {
		var e Event
		var status string
		if err := evRows.Scan(&e.ID, &e.LessonID, &e.StartsAt, &e.DurationMin, &status, &e.Location, &e.EquipmentCategory, &e.EquipmentCount); err != nil {
			return err
		}
		e.Status = economics.EventStatus(status)
		events[e.LessonID] = append(events[e.LessonID], e)
	}
	if err := evRows.Err(); err != nil {
		return err
	}

	for _, b := range bs {
		for i := range b.Lessons {
			b.Lessons[i].Events = events[b.Lessons[i].ID]
		}
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, requestID int64, participants int) (int64, error) {
	if participants < 1 {
		participants = 1
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (request_id, participants)
		VALUES ($1,$2)
		RETURNING id
	`, requestID, participants).Scan(&id)
	return id, err
}

// CreateLesson создаёт занятие со снимком переданной ставки.
func (r *Repo) CreateLesson(ctx context.Context, bookingID, instructorID int64, rate economics.Rate) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lessons (booking_id, instructor_id, rate_kind, rate_value)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, bookingID, instructorID, string(rate.Kind), rate.Value).Scan(&id)
	return id, err
}

func (r *Repo) CreateEvent(ctx context.Context, e Event) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO events (lesson_id, starts_at, duration_min, status, location, equipment_category, equipment_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, e.LessonID, e.StartsAt, e.DurationMin, string(e.Status), e.Location, e.EquipmentCategory, e.EquipmentCount).Scan(&id)
	return id, err
}

// SetEventStatus — инструктор отмечает результат события.
func (r *Repo) SetEventStatus(ctx context.Context, eventID int64, status economics.EventStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET status=$2 WHERE id=$1`, eventID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %d not found", eventID)
	}
	return nil
}
