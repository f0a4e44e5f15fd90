package economics

import "testing"

func bundlesEqual(a, b StatBundle) bool {
	return a.Count == b.Count &&
		a.EventCount == b.EventCount &&
		a.TotalMinutes == b.TotalMinutes &&
		almostEqual(a.MoneyIn, b.MoneyIn) &&
		almostEqual(a.MoneyOut, b.MoneyOut) &&
		almostEqual(a.Net, b.Net)
}

func TestRollupEmptyIsZeroBundle(t *testing.T) {
	got := Rollup(nil, BookingStat)
	if !bundlesEqual(got, StatBundle{}) {
		t.Fatalf("Rollup(nil) = %+v, want zero bundle", got)
	}
}

// Сценарий: три букинга с выручками 100/0/50 и комиссиями 30/0/10.
func TestRollupSumsPrecomputedFigures(t *testing.T) {
	rows := []BookingFigures{
		{Revenue: 100, CommissionTotal: 30, EventCount: 2, ConsumedMinutes: 120},
		{},
		{Revenue: 50, CommissionTotal: 10, EventCount: 1, ConsumedMinutes: 60},
	}

	got := Rollup(rows, BookingStat)
	want := StatBundle{Count: 3, EventCount: 3, TotalMinutes: 180, MoneyIn: 150, MoneyOut: 40, Net: 110}
	if !bundlesEqual(got, want) {
		t.Fatalf("Rollup = %+v, want %+v", got, want)
	}
}

func TestRollupOrderIndependent(t *testing.T) {
	rows := []BookingFigures{
		{Revenue: 100, CommissionTotal: 30},
		{Revenue: 50, CommissionTotal: 10},
		{Revenue: 7, ReferralEarned: 2},
	}
	reversed := []BookingFigures{rows[2], rows[1], rows[0]}

	if !bundlesEqual(Rollup(rows, BookingStat), Rollup(reversed, BookingStat)) {
		t.Fatalf("rollup depends on row order")
	}
}

func TestRollupComposesViaCombine(t *testing.T) {
	a := []BookingFigures{
		{Revenue: 100, CommissionTotal: 30, EventCount: 2},
		{Revenue: 20, ReferralEarned: 5},
	}
	b := []BookingFigures{
		{Revenue: 50, CommissionTotal: 10, EventCount: 1},
	}

	whole := Rollup(append(append([]BookingFigures{}, a...), b...), BookingStat)
	parts := Combine(Rollup(a, BookingStat), Rollup(b, BookingStat))
	if !bundlesEqual(whole, parts) {
		t.Fatalf("Rollup(A++B) = %+v, Combine = %+v", whole, parts)
	}
}

func TestLessonStat(t *testing.T) {
	f := LessonFigures{
		EventCount:      3,
		ConsumedMinutes: 180,
		Revenue:         90,
		Commission:      Earning{Earned: 40},
	}
	got := LessonStat(f)
	want := StatBundle{Count: 1, EventCount: 3, TotalMinutes: 180, MoneyIn: 90, MoneyOut: 40, Net: 50}
	if !bundlesEqual(got, want) {
		t.Fatalf("LessonStat = %+v, want %+v", got, want)
	}
}
