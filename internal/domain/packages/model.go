package packages

import "time"

// SchoolPackage — шаблон продукта: цена за участника и плановая длительность.
type SchoolPackage struct {
	ID                  int64
	Name                string
	PriceUnit           float64 // цена за одного участника
	Currency            string  // код валюты, конвертаций нет
	DurationTargetMin   int     // на сколько минут куплен пакет; 0 — деградация данных, не авария
	ParticipantCapacity int
	EquipmentCapacity   int
	EquipmentCategory   string
	Active              bool
	CreatedAt           time.Time
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// StudentPackage — заявка: участники + пакет + (опционально) реферальный код.
// Принятая заявка порождает букинги.
type StudentPackage struct {
	ID           int64
	PackageID    int64
	ReferralID   *int64
	ContactName  string
	Participants int
	Status       RequestStatus
	CreatedAt    time.Time
}
