package payments

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	baseURL string
}

func NewService(baseURL string) *Service {
	return &Service{baseURL: strings.TrimRight(baseURL, "/")}
}

// PaymentURL строит ссылку на оплату букинга.
// Пока это наш же HTTP-сервер, без внешнего эквайринга.
func (s *Service) PaymentURL(bookingID int64) string {
	return fmt.Sprintf("%s/payments/pay?booking=%d", s.baseURL, bookingID)
}

// CreatePayment — сигнатура под реальную интеграцию эквайринга,
// сейчас просто строит URL.
func (s *Service) CreatePayment(
	_ context.Context,
	bookingID int64,
	amount float64,
	description string,
) (string, error) {
	_ = amount
	_ = description

	return s.PaymentURL(bookingID), nil
}
