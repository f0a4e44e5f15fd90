package payments

import "time"

// Payment — денежный факт: оплата букинга учеником (приход) или
// выплата инструктору (расход). Заполнено ровно одно из двух полей-ссылок.
type Payment struct {
	ID           int64
	BookingID    *int64
	InstructorID *int64
	Amount       float64
	At           time.Time
}
