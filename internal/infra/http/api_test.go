package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/Spok95/school-bot/internal/domain/bookings"
	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/domain/packages"
)

type stubBookings struct {
	tree  *bookings.Booking
	trees []*bookings.Booking
}

func (s *stubBookings) GetTree(_ context.Context, _ int64) (*bookings.Booking, error) {
	return s.tree, nil
}

func (s *stubBookings) ListTrees(_ context.Context) ([]*bookings.Booking, error) {
	return s.trees, nil
}

type stubPayments struct{ paid float64 }

func (s *stubPayments) SumForBooking(_ context.Context, _ int64) (float64, error) {
	return s.paid, nil
}

func testBooking(rateKind economics.RateKind) *bookings.Booking {
	return &bookings.Booking{
		ID:           7,
		Participants: 2,
		Package: &packages.SchoolPackage{
			PriceUnit:         50,
			Currency:          "RUB",
			DurationTargetMin: 600,
		},
		Lessons: []bookings.Lesson{{
			InstructorName: "Иванов",
			Rate:           economics.Rate{Kind: rateKind, Value: 20},
			Events: []bookings.Event{
				{DurationMin: 300, Status: economics.StatusCompleted},
			},
		}},
	}
}

func newTestServer(b *stubBookings) *httptest.Server {
	api := NewAPI(slog.Default(), b, &stubPayments{paid: 30})
	srv := New(":0", false, api)
	return httptest.NewServer(srv.srv.Handler)
}

func TestBookingEconomicsEndpoint(t *testing.T) {
	ts := newTestServer(&stubBookings{tree: testBooking(economics.RateFixed)})
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/bookings/7/economics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body bookingEconomicsResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 50 * 2 * (300/600)
	if body.Revenue != 50 {
		t.Fatalf("revenue = %v, want 50", body.Revenue)
	}
	// fixed 20/ч * 5ч
	if body.CommissionTotal != 100 {
		t.Fatalf("commission = %v, want 100", body.CommissionTotal)
	}
	if body.Paid != 30 || body.Currency != "RUB" {
		t.Fatalf("paid/currency = %v/%q", body.Paid, body.Currency)
	}
	if len(body.Lessons) != 1 || body.Lessons[0].Instructor != "Иванов" || body.Lessons[0].RateLabel != "20/ч" {
		t.Fatalf("lessons = %+v", body.Lessons)
	}
}

// Битая схема ставки — явное «посчитать нельзя», а не тихий ноль.
func TestBookingEconomicsUnknownRateKind(t *testing.T) {
	ts := newTestServer(&stubBookings{tree: testBooking("barter")})
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/bookings/7/economics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != 422 {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "unable to compute" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestBookingProgressEndpoint(t *testing.T) {
	ts := newTestServer(&stubBookings{tree: testBooking(economics.RateFixed)})
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/bookings/7/progress")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		BookingID       int64               `json:"booking_id"`
		ConsumedMinutes int                 `json:"consumed_minutes"`
		Ratio           float64             `json:"ratio"`
		Segments        []economics.Segment `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.BookingID != 7 || body.ConsumedMinutes != 300 || body.Ratio != 0.5 {
		t.Fatalf("progress = %+v", body)
	}
	if len(body.Segments) != 2 {
		t.Fatalf("segments = %+v, want completed + remainder", body.Segments)
	}
}

func TestBookingsStatsSkipsBrokenRows(t *testing.T) {
	ts := newTestServer(&stubBookings{trees: []*bookings.Booking{
		testBooking(economics.RateFixed),
		testBooking("barter"),
	}})
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/stats/bookings")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body bookingsStatsResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Failed != 1 {
		t.Fatalf("failed = %d, want 1", body.Failed)
	}
	if body.Total.Count != 1 || body.Total.MoneyIn != 50 {
		t.Fatalf("total = %+v", body.Total)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&stubBookings{})
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
