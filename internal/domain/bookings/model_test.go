package bookings

import (
	"testing"

	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/domain/packages"
	"github.com/Spok95/school-bot/internal/domain/referrals"
)

func TestEconomicsInputMapsTree(t *testing.T) {
	b := &Booking{
		Participants: 2,
		Package: &packages.SchoolPackage{
			PriceUnit:         50,
			DurationTargetMin: 600,
		},
		Referral: &referrals.Referral{Kind: economics.RatePercentage, Value: 10},
		Lessons: []Lesson{
			{
				Rate: economics.Rate{Kind: economics.RateFixed, Value: 20},
				Events: []Event{
					{DurationMin: 120, Status: economics.StatusCompleted},
					{DurationMin: 60, Status: economics.StatusCancelled},
				},
			},
		},
	}

	in := b.EconomicsInput()
	if in.PriceUnit != 50 || in.TargetMin != 600 || in.Participants != 2 {
		t.Fatalf("package fields not mapped: %+v", in)
	}
	if in.Referral == nil || in.Referral.Kind != economics.RatePercentage || in.Referral.Value != 10 {
		t.Fatalf("referral not mapped: %+v", in.Referral)
	}
	if len(in.Lessons) != 1 || len(in.Lessons[0].Sessions) != 2 {
		t.Fatalf("lessons not mapped: %+v", in.Lessons)
	}

	f, err := economics.EvaluateBooking(in)
	if err != nil {
		t.Fatalf("EvaluateBooking: %v", err)
	}
	if f.ConsumedMinutes != 120 {
		t.Fatalf("consumed = %d, want 120", f.ConsumedMinutes)
	}
}

// Недособранная строка: без пакета и занятий считаем нули, не паникуем.
func TestEconomicsInputMalformedRow(t *testing.T) {
	b := &Booking{}

	in := b.EconomicsInput()
	if in.Participants != 1 {
		t.Fatalf("participants defaulted to %d, want 1", in.Participants)
	}
	if in.PriceUnit != 0 || in.TargetMin != 0 || in.Referral != nil || len(in.Lessons) != 0 {
		t.Fatalf("malformed row mapped to %+v, want zero input", in)
	}

	f, err := economics.EvaluateBooking(in)
	if err != nil {
		t.Fatalf("EvaluateBooking: %v", err)
	}
	if f.Revenue != 0 || f.Net != 0 {
		t.Fatalf("malformed row produced money: %+v", f)
	}
}

func TestBookingProgress(t *testing.T) {
	b := &Booking{
		Package: &packages.SchoolPackage{DurationTargetMin: 300},
		Lessons: []Lesson{
			{Events: []Event{{DurationMin: 120, Status: economics.StatusCompleted}}},
			{Events: []Event{{DurationMin: 60, Status: economics.StatusCancelled}}},
		},
	}

	p := b.Progress()
	if p.ConsumedMinutes != 120 {
		t.Fatalf("consumed = %d, want 120", p.ConsumedMinutes)
	}
	if p.Ratio != 0.4 {
		t.Fatalf("ratio = %v, want 0.4", p.Ratio)
	}
}

func TestBookingProgressWithoutPackage(t *testing.T) {
	b := &Booking{Lessons: []Lesson{{Events: []Event{{DurationMin: 60, Status: economics.StatusCompleted}}}}}
	if p := b.Progress(); p.Ratio != 0 {
		t.Fatalf("ratio without package = %v, want 0", p.Ratio)
	}
}
