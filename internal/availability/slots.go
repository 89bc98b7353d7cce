package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// BoundaryPolicy правило для последнего слота дня
type BoundaryPolicy int

const (
	// BoundaryStart слот может начинаться вплоть до времени закрытия включительно
	// (услуга при этом может закончиться после закрытия, но не позже полуночи)
	BoundaryStart BoundaryPolicy = iota
	// BoundaryFit слот должен целиком помещаться в рабочее окно: start + duration <= close
	BoundaryFit
)

// ParseBoundaryPolicy разбирает значение из конфигурации ("start" | "fit")
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start":
		return BoundaryStart, nil
	case "fit":
		return BoundaryFit, nil
	default:
		return BoundaryStart, fmt.Errorf("unknown slot boundary policy %q", s)
	}
}

// String возвращает значение для конфигурации и логов
func (p BoundaryPolicy) String() string {
	if p == BoundaryFit {
		return "fit"
	}
	return "start"
}

// NoCutoff значение notBefore, при котором слоты не отсекаются по текущему времени
const NoCutoff = -1

// SlotGenerator генерирует слоты на фиксированной сетке от времени открытия
type SlotGenerator struct {
	step     int
	boundary BoundaryPolicy
}

// NewSlotGenerator создает генератор с шагом сетки domain.SlotStepMinutes
func NewSlotGenerator(boundary BoundaryPolicy) SlotGenerator {
	return SlotGenerator{step: domain.SlotStepMinutes, boundary: boundary}
}

// Boundary возвращает правило последнего слота
func (g SlotGenerator) Boundary() BoundaryPolicy {
	return g.boundary
}

// Generate возвращает свободные слоты дня по возрастанию
// Закрытый день, некорректная длительность или пустое окно - пустой список
func (g SlotGenerator) Generate(day domain.DaySchedule, durationMinutes int, busy IntervalSet) []types.TimeString {
	return g.GenerateNotBefore(day, durationMinutes, busy, NoCutoff)
}

// GenerateNotBefore то же, что Generate, но отбрасывает слоты, начинающиеся раньше notBefore (минуты)
func (g SlotGenerator) GenerateNotBefore(day domain.DaySchedule, durationMinutes int, busy IntervalSet, notBefore int) []types.TimeString {
	slots := make([]types.TimeString, 0)
	g.walk(day, durationMinutes, busy, notBefore, func(start int) bool {
		ts, err := types.NewTimeStringFromMinutes(start)
		if err == nil {
			slots = append(slots, ts)
		}
		return true
	})
	return slots
}

// HasAnySlot быстрая проверка: есть ли в дне хотя бы один свободный слот
func (g SlotGenerator) HasAnySlot(day domain.DaySchedule, durationMinutes int, busy IntervalSet, notBefore int) bool {
	found := false
	g.walk(day, durationMinutes, busy, notBefore, func(int) bool {
		found = true
		return false
	})
	return found
}

// IsBookable проверяет, что start - один из слотов, которые вернул бы Generate
func (g SlotGenerator) IsBookable(day domain.DaySchedule, durationMinutes int, busy IntervalSet, start types.TimeString) bool {
	if start.IsZero() || !day.IsUsable() || g.step <= 0 {
		return false
	}
	s := start.Minutes()
	open := day.Start.Minutes()
	if s < open || (s-open)%g.step != 0 {
		return false
	}
	if !g.withinBoundary(s, durationMinutes, day.End.Minutes()) {
		return false
	}
	return durationMinutes > 0 && !busy.Overlaps(s, s+durationMinutes)
}

// walk обходит сетку слотов и вызывает visit для каждого свободного слота
// visit возвращает false, чтобы остановить обход
func (g SlotGenerator) walk(day domain.DaySchedule, durationMinutes int, busy IntervalSet, notBefore int, visit func(start int) bool) {
	if durationMinutes <= 0 || g.step <= 0 || !day.IsUsable() {
		return
	}

	open := day.Start.Minutes()
	closeAt := day.End.Minutes()

	for s := open; g.withinBoundary(s, durationMinutes, closeAt); s += g.step {
		if s < notBefore {
			continue
		}
		// Полуоткрытые интервалы: [s, e) пересекает [b_start, b_end) iff s < b_end && e > b_start
		if busy.Overlaps(s, s+durationMinutes) {
			continue
		}
		if !visit(s) {
			return
		}
	}
}

// withinBoundary при любом правиле услуга должна закончиться не позже 24:00
func (g SlotGenerator) withinBoundary(start, durationMinutes, closeAt int) bool {
	if start >= types.MinutesPerDay || start+durationMinutes > types.MinutesPerDay {
		return false
	}
	if g.boundary == BoundaryFit {
		return start+durationMinutes <= closeAt
	}
	return start <= closeAt
}

// CutoffMinutes минимальное время начала слота на сегодня: текущее время плюс минимальный запас
// Результат может быть больше 24:00, тогда на сегодня слотов нет
func CutoffMinutes(now time.Time, minNoticeMinutes int) int {
	if minNoticeMinutes < 0 {
		minNoticeMinutes = 0
	}
	cutoff := now.Hour()*60 + now.Minute() + minNoticeMinutes
	if now.Second() > 0 || now.Nanosecond() > 0 {
		// слот, начинающийся в текущую минуту, уже начался
		cutoff++
	}
	return cutoff
}
