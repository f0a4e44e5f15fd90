package economics

import (
	"errors"
	"testing"
)

// Сценарий: fixed 20/ч на занятии в 90 минут — 30, выручка не влияет.
func TestCommissionFixed(t *testing.T) {
	rate := Rate{Kind: RateFixed, Value: 20}

	e, err := Commission(90, rate, 0, 600)
	if err != nil {
		t.Fatalf("Commission: %v", err)
	}
	if !almostEqual(e.Earned, 30) {
		t.Fatalf("earned = %v, want 30", e.Earned)
	}
	if !almostEqual(e.Hours, 1.5) {
		t.Fatalf("hours = %v, want 1.5", e.Hours)
	}
	if e.RateLabel != "20/ч" {
		t.Fatalf("label = %q, want %q", e.RateLabel, "20/ч")
	}

	// та же ставка при любой выручке
	e2, err := Commission(90, rate, 100500, 600)
	if err != nil {
		t.Fatalf("Commission: %v", err)
	}
	if e2.Earned != e.Earned {
		t.Fatalf("fixed commission depends on revenue: %v != %v", e2.Earned, e.Earned)
	}
}

// Сценарий: percentage 25 при выручке 200 — 50, часы не влияют.
func TestCommissionPercentage(t *testing.T) {
	rate := Rate{Kind: RatePercentage, Value: 25}

	e, err := Commission(90, rate, 200, 600)
	if err != nil {
		t.Fatalf("Commission: %v", err)
	}
	if !almostEqual(e.Earned, 50) {
		t.Fatalf("earned = %v, want 50", e.Earned)
	}
	if e.RateLabel != "25%" {
		t.Fatalf("label = %q, want %q", e.RateLabel, "25%")
	}

	// иная длительность при той же выручке — то же вознаграждение
	e2, err := Commission(600, rate, 200, 600)
	if err != nil {
		t.Fatalf("Commission: %v", err)
	}
	if e2.Earned != e.Earned {
		t.Fatalf("percentage commission depends on hours: %v != %v", e2.Earned, e.Earned)
	}
}

func TestCommissionUnknownKindFailsLoudly(t *testing.T) {
	_, err := Commission(90, Rate{Kind: "barter", Value: 10}, 200, 600)
	if !errors.Is(err, ErrUnknownRateKind) {
		t.Fatalf("expected ErrUnknownRateKind, got %v", err)
	}
}

func TestCommissionNonNegativeOnNonNegativeInputs(t *testing.T) {
	for _, rate := range []Rate{
		{Kind: RateFixed, Value: 20},
		{Kind: RatePercentage, Value: 25},
	} {
		e, err := Commission(-60, rate, 0, 600)
		if err != nil {
			t.Fatalf("Commission: %v", err)
		}
		if e.Earned < 0 || e.Hours < 0 {
			t.Fatalf("%s: negative result: %+v", rate.Kind, e)
		}
	}
}
