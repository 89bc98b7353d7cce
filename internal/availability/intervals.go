package availability

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Interval занятый интервал [Start, End) в минутах от полуночи
type Interval struct {
	Start int
	End   int
}

// Overlaps проверяет пересечение с [start, end)
// Интервалы, которые только касаются границей, не пересекаются:
// запись 09:00-10:00 и слот 08:30-09:00 совместимы
func (i Interval) Overlaps(start, end int) bool {
	return start < i.End && end > i.Start
}

// IntervalSet занятые интервалы одного мастера на одну дату
// Пересекающиеся и дублирующиеся интервалы не склеиваются: проверка пересечения от этого не зависит
type IntervalSet []Interval

// NewIntervalSet строит занятые интервалы из записей одного мастера на одну дату
// Отмененные записи пропускаются, блокировки учитываются так же, как клиентские записи
func NewIntervalSet(appointments []*domain.Appointment) IntervalSet {
	set := make(IntervalSet, 0, len(appointments))
	for _, a := range appointments {
		if iv, ok := intervalOf(a); ok {
			set = append(set, iv)
		}
	}
	return set
}

// GroupByDate раскладывает записи месяца по датам (ключ - YYYY-MM-DD)
func GroupByDate(appointments []*domain.Appointment) map[string]IntervalSet {
	byDate := make(map[string]IntervalSet)
	for _, a := range appointments {
		iv, ok := intervalOf(a)
		if !ok {
			continue
		}
		key := a.Date.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], iv)
	}
	return byDate
}

// With возвращает новый набор с добавленным интервалом, исходный не меняется
func (s IntervalSet) With(start, end int) IntervalSet {
	out := make(IntervalSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, Interval{Start: start, End: end})
}

// Overlaps проверяет, пересекается ли [start, end) хотя бы с одним занятым интервалом
func (s IntervalSet) Overlaps(start, end int) bool {
	for _, iv := range s {
		if iv.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func intervalOf(a *domain.Appointment) (Interval, bool) {
	if a == nil || !a.CountsAsBooked() {
		return Interval{}, false
	}
	start, end, ok := a.Span()
	if !ok {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}
