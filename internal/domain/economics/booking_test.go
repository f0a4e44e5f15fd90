package economics

import (
	"errors"
	"testing"
)

func TestEvaluateBookingFullTree(t *testing.T) {
	in := BookingInput{
		PriceUnit:    50,
		Participants: 2,
		TargetMin:    600,
		Referral:     &Rate{Kind: RatePercentage, Value: 10},
		Lessons: []LessonInput{
			{
				Rate: Rate{Kind: RateFixed, Value: 20},
				Sessions: []SessionInput{
					{DurationMin: 120, Status: StatusCompleted},
					{DurationMin: 60, Status: StatusCancelled}, // не считается
				},
			},
			{
				Rate: Rate{Kind: RatePercentage, Value: 25},
				Sessions: []SessionInput{
					{DurationMin: 180, Status: StatusCompleted},
				},
			},
		},
	}

	f, err := EvaluateBooking(in)
	if err != nil {
		t.Fatalf("EvaluateBooking: %v", err)
	}

	if f.EventCount != 3 {
		t.Fatalf("event count = %d, want 3", f.EventCount)
	}
	if f.ConsumedMinutes != 300 {
		t.Fatalf("consumed = %d, want 300", f.ConsumedMinutes)
	}
	// 50 * 2 * (300/600)
	if !almostEqual(f.Revenue, 50) {
		t.Fatalf("booking revenue = %v, want 50", f.Revenue)
	}

	// занятие 1: 120м, fixed 20/ч -> 40
	if got := f.Lessons[0].Commission.Earned; !almostEqual(got, 40) {
		t.Fatalf("lesson 1 commission = %v, want 40", got)
	}
	// занятие 2: выручка 50*2*(180/600)=30, percentage 25 -> 7.5
	if got := f.Lessons[1].Revenue; !almostEqual(got, 30) {
		t.Fatalf("lesson 2 revenue = %v, want 30", got)
	}
	if got := f.Lessons[1].Commission.Earned; !almostEqual(got, 7.5) {
		t.Fatalf("lesson 2 commission = %v, want 7.5", got)
	}
	if !almostEqual(f.CommissionTotal, 47.5) {
		t.Fatalf("commission total = %v, want 47.5", f.CommissionTotal)
	}

	// реферал: 10% от выручки букинга
	if f.Referral == nil || !almostEqual(f.ReferralEarned, 5) {
		t.Fatalf("referral earned = %v, want 5", f.ReferralEarned)
	}
	if !almostEqual(f.Net, 50-47.5-5) {
		t.Fatalf("net = %v, want %v", f.Net, 50-47.5-5)
	}
}

func TestEvaluateBookingWithoutReferral(t *testing.T) {
	f, err := EvaluateBooking(BookingInput{
		PriceUnit: 50, Participants: 1, TargetMin: 600,
		Lessons: []LessonInput{{
			Rate:     Rate{Kind: RateFixed, Value: 10},
			Sessions: []SessionInput{{DurationMin: 60, Status: StatusCompleted}},
		}},
	})
	if err != nil {
		t.Fatalf("EvaluateBooking: %v", err)
	}
	if f.Referral != nil || f.ReferralEarned != 0 {
		t.Fatalf("no referral attached, got %+v", f.Referral)
	}
	if !almostEqual(f.Net, f.Revenue-f.CommissionTotal) {
		t.Fatalf("net without referral = %v", f.Net)
	}
}

// Деградировавшая строка: nil коллекции дают нулевые цифры, не панику.
func TestEvaluateBookingEmptyTree(t *testing.T) {
	f, err := EvaluateBooking(BookingInput{PriceUnit: 50, Participants: 2, TargetMin: 600})
	if err != nil {
		t.Fatalf("EvaluateBooking: %v", err)
	}
	if !bundlesEqual(BookingStat(f), StatBundle{Count: 1}) {
		t.Fatalf("empty tree bundle = %+v", BookingStat(f))
	}
}

func TestEvaluateBookingZeroTargetIsSafe(t *testing.T) {
	f, err := EvaluateBooking(BookingInput{
		PriceUnit: 50, Participants: 2, TargetMin: 0,
		Lessons: []LessonInput{{
			Rate:     Rate{Kind: RatePercentage, Value: 25},
			Sessions: []SessionInput{{DurationMin: 120, Status: StatusCompleted}},
		}},
	})
	if err != nil {
		t.Fatalf("EvaluateBooking: %v", err)
	}
	if f.Revenue != 0 || f.CommissionTotal != 0 {
		t.Fatalf("zero target: revenue=%v commission=%v, want zeros", f.Revenue, f.CommissionTotal)
	}
}

func TestEvaluateBookingUnknownRateKind(t *testing.T) {
	_, err := EvaluateBooking(BookingInput{
		PriceUnit: 50, Participants: 1, TargetMin: 600,
		Lessons: []LessonInput{{
			Rate:     Rate{Kind: "tips", Value: 5},
			Sessions: []SessionInput{{DurationMin: 60, Status: StatusCompleted}},
		}},
	})
	if !errors.Is(err, ErrUnknownRateKind) {
		t.Fatalf("expected ErrUnknownRateKind, got %v", err)
	}
}
