package economics

import "testing"

// Сценарий: completed 120м + cancelled 60м против плана 300м.
// Отменённое время видно в сегментах, но не в израсходованных минутах.
func TestCompletionCancelledExcludedFromConsumed(t *testing.T) {
	p := Completion([]SessionInput{
		{DurationMin: 120, Status: StatusCompleted},
		{DurationMin: 60, Status: StatusCancelled},
	}, 300)

	if p.ConsumedMinutes != 120 {
		t.Fatalf("consumed = %d, want 120", p.ConsumedMinutes)
	}
	if !almostEqual(p.Ratio, 0.4) {
		t.Fatalf("ratio = %v, want 0.4", p.Ratio)
	}

	want := []Segment{
		{Status: StatusCompleted, Fraction: 0.4, Color: "#2e7d32"},
		{Status: StatusCancelled, Fraction: 0.2, Color: "#9e9e9e"},
		{Status: StatusRemainder, Fraction: 0.4, Color: "#eceff1"},
	}
	if len(p.Segments) != len(want) {
		t.Fatalf("segments = %+v, want %d entries", p.Segments, len(want))
	}
	for i, w := range want {
		g := p.Segments[i]
		if g.Status != w.Status || !almostEqual(g.Fraction, w.Fraction) || g.Color != w.Color {
			t.Fatalf("segment[%d] = %+v, want %+v", i, g, w)
		}
	}

	if c := p.Counts[StatusCancelled]; c.Count != 1 || c.Minutes != 60 {
		t.Fatalf("cancelled bucket = %+v, want {1 60}", c)
	}
}

func TestCompletionSegmentOrderIsFixed(t *testing.T) {
	// события нарочно в перемешанном порядке
	p := Completion([]SessionInput{
		{DurationMin: 30, Status: StatusCancelled},
		{DurationMin: 60, Status: StatusScheduled},
		{DurationMin: 90, Status: StatusCompleted},
		{DurationMin: 15, Status: StatusResting},
		{DurationMin: 45, Status: StatusUncompleted},
	}, 600)

	order := []EventStatus{
		StatusCompleted, StatusScheduled, StatusResting,
		StatusUncompleted, StatusCancelled, StatusRemainder,
	}
	if len(p.Segments) != len(order) {
		t.Fatalf("got %d segments, want %d", len(p.Segments), len(order))
	}
	for i, st := range order {
		if p.Segments[i].Status != st {
			t.Fatalf("segment[%d] = %s, want %s", i, p.Segments[i].Status, st)
		}
	}
}

func TestCompletionRatioClampedOnOverDelivery(t *testing.T) {
	p := Completion([]SessionInput{
		{DurationMin: 500, Status: StatusCompleted},
	}, 300)

	if p.Ratio != 1 {
		t.Fatalf("ratio = %v, want clamp to 1", p.Ratio)
	}
	if !almostEqual(p.RawRatio, 500.0/300.0) {
		t.Fatalf("raw ratio = %v, want %v", p.RawRatio, 500.0/300.0)
	}
	// остаток при переработке равен нулю, не отрицательный
	last := p.Segments[len(p.Segments)-1]
	if last.Status != StatusRemainder || last.Fraction != 0 {
		t.Fatalf("remainder = %+v, want zero remainder", last)
	}
}

func TestCompletionZeroTarget(t *testing.T) {
	p := Completion([]SessionInput{
		{DurationMin: 120, Status: StatusCompleted},
	}, 0)

	if p.Ratio != 0 || p.RawRatio != 0 {
		t.Fatalf("ratio = %v/%v, want 0/0", p.Ratio, p.RawRatio)
	}
	if p.ConsumedMinutes != 120 {
		t.Fatalf("consumed = %d, want 120", p.ConsumedMinutes)
	}
	// без плановой базы сегменты не рисуем
	if len(p.Segments) != 0 {
		t.Fatalf("segments = %+v, want none", p.Segments)
	}
}

func TestCompletionEmptyInput(t *testing.T) {
	p := Completion(nil, 300)
	if p.ConsumedMinutes != 0 || p.Ratio != 0 {
		t.Fatalf("empty input: %+v", p)
	}
	if len(p.Segments) != 1 || p.Segments[0].Status != StatusRemainder || p.Segments[0].Fraction != 1 {
		t.Fatalf("empty input segments = %+v, want full remainder", p.Segments)
	}
}

func TestCompletionNegativeDurationTreatedAsZero(t *testing.T) {
	p := Completion([]SessionInput{
		{DurationMin: -60, Status: StatusCompleted},
	}, 300)
	if p.ConsumedMinutes != 0 {
		t.Fatalf("consumed = %d, want 0", p.ConsumedMinutes)
	}
	if c := p.Counts[StatusCompleted]; c.Count != 1 || c.Minutes != 0 {
		t.Fatalf("completed bucket = %+v, want {1 0}", c)
	}
}
