package referrals

import (
	"time"

	"github.com/Spok95/school-bot/internal/domain/economics"
)

// Referral — код представителя: fixed платится за часы букинга,
// percentage — доля выручки букинга.
type Referral struct {
	ID        int64
	Code      string
	Kind      economics.RateKind
	Value     float64
	Active    bool
	CreatedAt time.Time
}

// Rate — ставка реферала для движка расчётов.
func (r Referral) Rate() economics.Rate {
	return economics.Rate{Kind: r.Kind, Value: r.Value}
}
