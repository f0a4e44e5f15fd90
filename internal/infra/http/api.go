package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Spok95/school-bot/internal/domain/bookings"
	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/infra/metrics"
)

// BookingSource — то, что API нужно от слоя данных.
type BookingSource interface {
	GetTree(ctx context.Context, id int64) (*bookings.Booking, error)
	ListTrees(ctx context.Context) ([]*bookings.Booking, error)
}

type PaymentSource interface {
	SumForBooking(ctx context.Context, bookingID int64) (float64, error)
}

type API struct {
	log      *slog.Logger
	bookings BookingSource
	payments PaymentSource
}

func NewAPI(log *slog.Logger, b BookingSource, p PaymentSource) *API {
	return &API{log: log, bookings: b, payments: p}
}

type lessonEconomicsResp struct {
	Instructor      string  `json:"instructor"`
	EventCount      int     `json:"event_count"`
	ConsumedMinutes int     `json:"consumed_minutes"`
	Revenue         float64 `json:"revenue"`
	RateLabel       string  `json:"rate_label"`
	Hours           float64 `json:"hours"`
	Commission      float64 `json:"commission"`
}

type bookingEconomicsResp struct {
	BookingID       int64                 `json:"booking_id"`
	Currency        string                `json:"currency"`
	ConsumedMinutes int                   `json:"consumed_minutes"`
	Revenue         float64               `json:"revenue"`
	CommissionTotal float64               `json:"commission_total"`
	ReferralCode    string                `json:"referral_code,omitempty"`
	ReferralEarned  float64               `json:"referral_earned"`
	Net             float64               `json:"net"`
	Paid            float64               `json:"paid"`
	Lessons         []lessonEconomicsResp `json:"lessons"`
}

func (a *API) bookingEconomics(w http.ResponseWriter, r *http.Request) {
	b, ok := a.loadBooking(w, r)
	if !ok {
		return
	}

	metrics.Evaluations.Inc()
	f, err := economics.EvaluateBooking(b.EconomicsInput())
	if err != nil {
		// единственная невосстановимая ошибка движка — неизвестная схема
		// ставки; отдаём явное «посчитать нельзя», а не тихий ноль
		if errors.Is(err, economics.ErrUnknownRateKind) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":  "unable to compute",
				"reason": err.Error(),
			})
			return
		}
		a.fail(w, err)
		return
	}

	paid, err := a.payments.SumForBooking(r.Context(), b.ID)
	if err != nil {
		a.fail(w, err)
		return
	}

	resp := bookingEconomicsResp{
		BookingID:       b.ID,
		ConsumedMinutes: f.ConsumedMinutes,
		Revenue:         f.Revenue,
		CommissionTotal: f.CommissionTotal,
		ReferralEarned:  f.ReferralEarned,
		Net:             f.Net,
		Paid:            paid,
	}
	if b.Package != nil {
		resp.Currency = b.Package.Currency
	}
	if b.Referral != nil {
		resp.ReferralCode = b.Referral.Code
	}
	for i, lf := range f.Lessons {
		lr := lessonEconomicsResp{
			EventCount:      lf.EventCount,
			ConsumedMinutes: lf.ConsumedMinutes,
			Revenue:         lf.Revenue,
			RateLabel:       lf.Commission.RateLabel,
			Hours:           lf.Commission.Hours,
			Commission:      lf.Commission.Earned,
		}
		if i < len(b.Lessons) {
			lr.Instructor = b.Lessons[i].InstructorName
		}
		resp.Lessons = append(resp.Lessons, lr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) bookingProgress(w http.ResponseWriter, r *http.Request) {
	b, ok := a.loadBooking(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		BookingID int64 `json:"booking_id"`
		economics.Progress
	}{b.ID, b.Progress()})
}

type bookingsStatsResp struct {
	Total  economics.StatBundle `json:"total"`
	Failed int                  `json:"failed"` // строки, которые не посчитались (битая схема ставки)
}

func (a *API) bookingsStats(w http.ResponseWriter, r *http.Request) {
	trees, err := a.bookings.ListTrees(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}

	var resp bookingsStatsResp
	var figs []economics.BookingFigures
	for _, b := range trees {
		metrics.Evaluations.Inc()
		f, err := economics.EvaluateBooking(b.EconomicsInput())
		if err != nil {
			// одна битая строка не валит сводку по группе
			a.log.Warn("booking skipped in rollup", "booking_id", b.ID, "err", err)
			resp.Failed++
			continue
		}
		figs = append(figs, f)
	}
	resp.Total = economics.Rollup(figs, economics.BookingStat)
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) loadBooking(w http.ResponseWriter, r *http.Request) (*bookings.Booking, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad booking id"})
		return nil, false
	}
	b, err := a.bookings.GetTree(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return nil, false
	}
	if b == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
		return nil, false
	}
	return b, true
}

func (a *API) fail(w http.ResponseWriter, err error) {
	a.log.Error("api error", "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
