package economics

// EventStatus — статус атомарной единицы занятия.
type EventStatus string

const (
	StatusScheduled   EventStatus = "scheduled" // запланировано или идёт
	StatusResting     EventStatus = "resting"   // перерыв/ожидание погоды
	StatusCompleted   EventStatus = "completed"
	StatusUncompleted EventStatus = "uncompleted"
	StatusCancelled   EventStatus = "cancelled"
)

// StatusRemainder — «хвост» неизрасходованной длительности пакета.
// Не статус события, появляется только в сегментах индикатора.
const StatusRemainder EventStatus = "remainder"

// Порядок сегментов фиксирован: все индикаторы в приложении рисуются
// из одного и того же списка и не решают порядок сами.
var segmentOrder = []EventStatus{
	StatusCompleted,
	StatusScheduled,
	StatusResting,
	StatusUncompleted,
	StatusCancelled,
}

var segmentColors = map[EventStatus]string{
	StatusCompleted:   "#2e7d32",
	StatusScheduled:   "#1976d2",
	StatusResting:     "#f9a825",
	StatusUncompleted: "#e64a19",
	StatusCancelled:   "#9e9e9e",
	StatusRemainder:   "#eceff1",
}

// SegmentColor — цвет статуса в индикаторе прогресса.
func SegmentColor(s EventStatus) string { return segmentColors[s] }

// SessionInput — минимальный вид события для чистых расчётов.
type SessionInput struct {
	DurationMin int
	Status      EventStatus
}

// Segment — одна полоса индикатора: статус, доля от плановой длительности, цвет.
type Segment struct {
	Status   EventStatus `json:"status"`
	Fraction float64     `json:"fraction"`
	Color    string      `json:"color"`
}

// StatusCount — сколько событий и минут накопил статус.
type StatusCount struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}

// Progress — агрегат событий букинга против плановой длительности пакета.
type Progress struct {
	Counts          map[EventStatus]StatusCount `json:"counts"`
	ConsumedMinutes int                         `json:"consumed_minutes"`
	Ratio           float64                     `json:"ratio"`     // клампится в [0,1]
	RawRatio        float64                     `json:"raw_ratio"` // без клампа: >1 — переработка
	Segments        []Segment                   `json:"segments"`
}

// Completion группирует события по статусам и считает готовность пакета.
// Отменённые события показываются (счётчик и серый сегмент), но в
// израсходованные минуты не входят: это время школа не проводила.
// targetMin <= 0 — деградация данных пакета, все доли и ratio равны 0.
func Completion(sessions []SessionInput, targetMin int) Progress {
	p := Progress{Counts: map[EventStatus]StatusCount{}}

	for _, s := range sessions {
		d := s.DurationMin
		if d < 0 {
			d = 0
		}
		c := p.Counts[s.Status]
		c.Count++
		c.Minutes += d
		p.Counts[s.Status] = c
		if s.Status != StatusCancelled {
			p.ConsumedMinutes += d
		}
	}

	if targetMin > 0 {
		p.RawRatio = float64(p.ConsumedMinutes) / float64(targetMin)
		p.Ratio = p.RawRatio
		if p.Ratio > 1 {
			p.Ratio = 1
		}
	}

	used := 0.0
	for _, st := range segmentOrder {
		c, ok := p.Counts[st]
		if !ok || c.Minutes == 0 {
			continue
		}
		fr := 0.0
		if targetMin > 0 {
			fr = float64(c.Minutes) / float64(targetMin)
		}
		used += fr
		p.Segments = append(p.Segments, Segment{Status: st, Fraction: fr, Color: segmentColors[st]})
	}

	// при переработке остаток равен нулю, отрицательным не бывает
	if targetMin > 0 {
		rest := 1 - used
		if rest < 0 {
			rest = 0
		}
		p.Segments = append(p.Segments, Segment{Status: StatusRemainder, Fraction: rest, Color: segmentColors[StatusRemainder]})
	}

	return p
}
