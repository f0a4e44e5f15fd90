package economics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// Сценарий: пакет 50/участник на 600 минут, двое участников,
// занятие на 300 минут — половина плана, выручка 50.
func TestLessonRevenueProration(t *testing.T) {
	if got := LessonRevenue(50, 2, 300, 600); !almostEqual(got, 50) {
		t.Fatalf("LessonRevenue(50,2,300,600) = %v, want 50", got)
	}
}

func TestLessonRevenueFullConsumptionEqualsFlatPrice(t *testing.T) {
	if got := LessonRevenue(80, 3, 480, 480); !almostEqual(got, 240) {
		t.Fatalf("full consumption: got %v, want 240", got)
	}
}

func TestLessonRevenueMonotonicInConsumed(t *testing.T) {
	prev := -1.0
	for consumed := 0; consumed <= 600; consumed += 50 {
		got := LessonRevenue(50, 2, consumed, 600)
		if got < prev {
			t.Fatalf("revenue decreased at consumed=%d: %v < %v", consumed, got, prev)
		}
		prev = got
	}
}

func TestLessonRevenueZeroTarget(t *testing.T) {
	if got := LessonRevenue(50, 2, 300, 0); got != 0 {
		t.Fatalf("zero target: got %v, want 0", got)
	}
	if got := LessonRevenue(50, 2, 300, -10); got != 0 {
		t.Fatalf("negative target: got %v, want 0", got)
	}
}

func TestLessonRevenueNegativeConsumedTreatedAsZero(t *testing.T) {
	if got := LessonRevenue(50, 2, -120, 600); got != 0 {
		t.Fatalf("negative consumed: got %v, want 0", got)
	}
}

func TestLessonRevenueDefaultsParticipantsToOne(t *testing.T) {
	if got := LessonRevenue(100, 0, 300, 600); !almostEqual(got, 50) {
		t.Fatalf("participants=0: got %v, want 50", got)
	}
}
