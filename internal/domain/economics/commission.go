package economics

import (
	"errors"
	"fmt"
)

type RateKind string

const (
	RateFixed      RateKind = "fixed"      // валюта за час
	RatePercentage RateKind = "percentage" // процент от выручки, 0..100
)

// ErrUnknownRateKind — схема ставки вне {fixed, percentage}.
// Молчаливый дефолт исказил бы выплату, поэтому падаем громко.
var ErrUnknownRateKind = errors.New("economics: unknown rate kind")

// Rate — снимок ставки (инструктора или реферала) на момент создания занятия.
// Ставка не пересчитывается задним числом при смене «живой» ставки.
type Rate struct {
	Kind  RateKind
	Value float64
}

// Label — подпись ставки для карточек: "500/ч" или "25%".
func (r Rate) Label() string {
	if r.Kind == RatePercentage {
		return fmt.Sprintf("%g%%", r.Value)
	}
	return fmt.Sprintf("%g/ч", r.Value)
}

// Earning — посчитанное вознаграждение вместе с готовой подписью ставки,
// чтобы вызывающий код не собирал её заново из сырых полей.
type Earning struct {
	Hours     float64
	RateLabel string
	Earned    float64
}

// Commission считает вознаграждение за consumedMin минут при базовой выручке
// baseRevenue. fixed платит за часы и не зависит от выручки, percentage —
// доля выручки и не зависит от часов. targetMin в обеих схемах не участвует;
// параметр зарезервирован под пропорциональные схемы, чтобы их добавление
// не ломало сигнатуру.
func Commission(consumedMin int, rate Rate, baseRevenue float64, targetMin int) (Earning, error) {
	_ = targetMin

	e := Earning{Hours: Hours(consumedMin), RateLabel: rate.Label()}
	switch rate.Kind {
	case RateFixed:
		e.Earned = rate.Value * e.Hours
	case RatePercentage:
		e.Earned = rate.Value / 100 * baseRevenue
	default:
		return Earning{}, fmt.Errorf("%w: %q", ErrUnknownRateKind, rate.Kind)
	}
	return e, nil
}
