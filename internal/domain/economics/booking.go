package economics

// Вход движка — полностью собранное дерево букинга. Опциональные связи
// разворачивает слой данных до вызова; здесь только арифметика.

// LessonInput — занятие со снимком ставки и событиями.
type LessonInput struct {
	Rate     Rate
	Sessions []SessionInput
}

// BookingInput — букинг с разрешённым пакетом и (опционально) рефералом.
type BookingInput struct {
	PriceUnit    float64
	Participants int
	TargetMin    int
	Referral     *Rate // nil — реферала нет, вклад равен нулю
	Lessons      []LessonInput
}

// LessonFigures — деньги и объём одного занятия.
type LessonFigures struct {
	EventCount      int
	ConsumedMinutes int
	Revenue         float64
	Commission      Earning
}

// BookingFigures — деньги и объём букинга целиком.
type BookingFigures struct {
	EventCount      int
	ConsumedMinutes int
	Revenue         float64 // по суммарным минутам букинга, та же пропорция
	Lessons         []LessonFigures
	CommissionTotal float64
	ReferralEarned  float64
	Referral        *Earning
	Net             float64 // Revenue - комиссии - реферал
}

// consumed суммирует длительность неотменённых событий занятия.
func consumed(sessions []SessionInput) (events, minutes int) {
	for _, s := range sessions {
		events++
		if s.Status == StatusCancelled || s.DurationMin <= 0 {
			continue
		}
		minutes += s.DurationMin
	}
	return events, minutes
}

// EvaluateBooking считает выручку, комиссии инструкторов и реферала по
// собранному дереву. Пустые/nil коллекции дают нулевой вклад, единственная
// жёсткая ошибка — неизвестная схема ставки.
func EvaluateBooking(in BookingInput) (BookingFigures, error) {
	var out BookingFigures

	for _, l := range in.Lessons {
		ev, mins := consumed(l.Sessions)
		rev := LessonRevenue(in.PriceUnit, in.Participants, mins, in.TargetMin)

		com, err := Commission(mins, l.Rate, rev, in.TargetMin)
		if err != nil {
			return BookingFigures{}, err
		}

		out.Lessons = append(out.Lessons, LessonFigures{
			EventCount:      ev,
			ConsumedMinutes: mins,
			Revenue:         rev,
			Commission:      com,
		})
		out.EventCount += ev
		out.ConsumedMinutes += mins
		out.CommissionTotal += com.Earned
	}

	out.Revenue = LessonRevenue(in.PriceUnit, in.Participants, out.ConsumedMinutes, in.TargetMin)

	if in.Referral != nil {
		ref, err := Commission(out.ConsumedMinutes, *in.Referral, out.Revenue, in.TargetMin)
		if err != nil {
			return BookingFigures{}, err
		}
		out.Referral = &ref
		out.ReferralEarned = ref.Earned
	}

	out.Net = out.Revenue - out.CommissionTotal - out.ReferralEarned
	return out, nil
}
