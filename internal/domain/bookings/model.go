package bookings

import (
	"time"

	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/domain/packages"
	"github.com/Spok95/school-bot/internal/domain/referrals"
)

// Event — атомарная проведённая (или отменённая) единица занятия.
type Event struct {
	ID                int64
	LessonID          int64
	StartsAt          time.Time
	DurationMin       int
	Status            economics.EventStatus
	Location          string
	EquipmentCategory string
	EquipmentCount    int
}

// Lesson — назначение инструктора на букинг со снимком его ставки.
type Lesson struct {
	ID             int64
	BookingID      int64
	InstructorID   int64
	InstructorName string
	Rate           economics.Rate // снимок на момент создания
	CreatedAt      time.Time
	Events         []Event
}

// Booking — одна покупка пакета. Repo отдаёт его полностью собранным:
// занятия с событиями, разрешённый пакет, реферал заявки (если был).
type Booking struct {
	ID           int64
	RequestID    int64
	Participants int
	CreatedAt    time.Time
	Package      *packages.SchoolPackage
	Referral     *referrals.Referral
	Lessons      []Lesson
}

func sessionInputs(events []Event) []economics.SessionInput {
	out := make([]economics.SessionInput, 0, len(events))
	for _, e := range events {
		out = append(out, economics.SessionInput{DurationMin: e.DurationMin, Status: e.Status})
	}
	return out
}

// EconomicsInput переводит дерево в вход движка. Недособранная строка
// (nil пакет, пустые занятия) даёт нулевой вклад, а не панику.
func (b *Booking) EconomicsInput() economics.BookingInput {
	in := economics.BookingInput{Participants: b.Participants}
	if in.Participants < 1 {
		in.Participants = 1
	}
	if b.Package != nil {
		in.PriceUnit = b.Package.PriceUnit
		in.TargetMin = b.Package.DurationTargetMin
	}
	if b.Referral != nil {
		rate := b.Referral.Rate()
		in.Referral = &rate
	}
	for _, l := range b.Lessons {
		in.Lessons = append(in.Lessons, economics.LessonInput{
			Rate:     l.Rate,
			Sessions: sessionInputs(l.Events),
		})
	}
	return in
}

// AllSessions — события всех занятий для индикатора готовности.
func (b *Booking) AllSessions() []economics.SessionInput {
	var out []economics.SessionInput
	for _, l := range b.Lessons {
		out = append(out, sessionInputs(l.Events)...)
	}
	return out
}

// TargetMin — плановая длительность пакета, 0 если пакет не разрешён.
func (b *Booking) TargetMin() int {
	if b.Package == nil {
		return 0
	}
	return b.Package.DurationTargetMin
}

// Progress — готовность букинга против плановой длительности.
func (b *Booking) Progress() economics.Progress {
	return economics.Completion(b.AllSessions(), b.TargetMin())
}
