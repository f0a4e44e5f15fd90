package economics

// StatBundle — аддитивная сводка по набору строк. Все поля всегда заполнены,
// нулевая сводка — валидный результат для пустого набора.
type StatBundle struct {
	Count        int     `json:"count"`
	EventCount   int     `json:"event_count"`
	TotalMinutes int     `json:"total_minutes"`
	MoneyIn      float64 `json:"money_in"`
	MoneyOut     float64 `json:"money_out"`
	Net          float64 `json:"net"`
}

// Combine — покомпонентная сумма: Rollup(A++B) == Combine(Rollup(A), Rollup(B)).
// За счёт этого общий итог и подытоги групп считаются из одних и тех же строк
// без повторного обхода исходных записей.
func Combine(a, b StatBundle) StatBundle {
	return StatBundle{
		Count:        a.Count + b.Count,
		EventCount:   a.EventCount + b.EventCount,
		TotalMinutes: a.TotalMinutes + b.TotalMinutes,
		MoneyIn:      a.MoneyIn + b.MoneyIn,
		MoneyOut:     a.MoneyOut + b.MoneyOut,
		Net:          a.Net + b.Net,
	}
}

// Rollup — единый fold по строкам любого вида: extract достаёт уже
// посчитанные числа строки, сумма коммутативна и не зависит от порядка.
// Раньше у каждой сущности был свой почти одинаковый цикл — теперь
// варианты отличаются только функцией извлечения.
func Rollup[T any](rows []T, extract func(T) StatBundle) StatBundle {
	var total StatBundle
	for _, r := range rows {
		total = Combine(total, extract(r))
	}
	return total
}

// BookingStat — вклад одного букинга: выручка внутрь, комиссии наружу.
func BookingStat(f BookingFigures) StatBundle {
	out := f.CommissionTotal + f.ReferralEarned
	return StatBundle{
		Count:        1,
		EventCount:   f.EventCount,
		TotalMinutes: f.ConsumedMinutes,
		MoneyIn:      f.Revenue,
		MoneyOut:     out,
		Net:          f.Revenue - out,
	}
}

// LessonStat — вклад одного занятия: выручка внутрь, комиссия инструктора наружу.
func LessonStat(f LessonFigures) StatBundle {
	return StatBundle{
		Count:        1,
		EventCount:   f.EventCount,
		TotalMinutes: f.ConsumedMinutes,
		MoneyIn:      f.Revenue,
		MoneyOut:     f.Commission.Earned,
		Net:          f.Revenue - f.Commission.Earned,
	}
}
