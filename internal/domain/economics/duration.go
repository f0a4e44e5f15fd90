package economics

import "fmt"

// SplitMinutes раскладывает минуты на целые часы и остаток.
func SplitMinutes(total int) (hours, minutes int) {
	if total <= 0 {
		return 0, 0
	}
	return total / 60, total % 60
}

// Hours переводит минуты в дробные часы.
func Hours(minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return float64(minutes) / 60.0
}

// FormatMinutes — человекочитаемая длительность: "2ч 30м", "2ч", "45м".
func FormatMinutes(total int) string {
	h, m := SplitMinutes(total)
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dч %dм", h, m)
	case h > 0:
		return fmt.Sprintf("%dч", h)
	default:
		return fmt.Sprintf("%dм", m)
	}
}
