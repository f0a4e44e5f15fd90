package instructors

import (
	"time"

	"github.com/Spok95/school-bot/internal/domain/economics"
)

// Instructor — инструктор с «живой» ставкой. Ставка снимается в занятие
// при его создании и дальше живёт своей жизнью.
type Instructor struct {
	ID         int64
	TelegramID *int64
	Name       string
	RateKind   economics.RateKind
	RateValue  float64
	Active     bool
	CreatedAt  time.Time
}

// Rate — текущая ставка для снимка в новое занятие.
func (i Instructor) Rate() economics.Rate {
	return economics.Rate{Kind: i.RateKind, Value: i.RateValue}
}
