package domain

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DaySchedule рабочее окно на один день недели
// Пустые Start/End на открытом дне означают, что время не удалось разобрать
type DaySchedule struct {
	Start  types.TimeString
	End    types.TimeString
	Closed bool
}

// ClosedDay расписание закрытого дня
func ClosedDay() DaySchedule {
	return DaySchedule{Closed: true}
}

// IsUsable возвращает true, если в этот день можно принимать записи
// Конец раньше или равный началу - нулевое окно, эквивалент закрытого дня
func (d DaySchedule) IsUsable() bool {
	if d.Closed || d.Start.IsZero() || d.End.IsZero() {
		return false
	}
	return d.Start.IsBefore(d.End)
}

// WeekdaySet множество дней недели (0=воскресенье..6=суббота)
type WeekdaySet uint8

// NewWeekdaySet создает множество из индексов. Индексы вне 0..6 игнорируются
func NewWeekdaySet(days ...int) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With возвращает множество с добавленным днем
func (s WeekdaySet) With(day int) WeekdaySet {
	if day < 0 || day > 6 {
		return s
	}
	return s | 1<<uint(day)
}

// Has проверяет вхождение дня недели
func (s WeekdaySet) Has(day time.Weekday) bool {
	if day < time.Sunday || day > time.Saturday {
		return false
	}
	return s&(1<<uint(day)) != 0
}

// Days возвращает отсортированный список индексов
func (s WeekdaySet) Days() []int {
	days := make([]int, 0, 7)
	for d := 0; d < 7; d++ {
		if s&(1<<uint(d)) != 0 {
			days = append(days, d)
		}
	}
	return days
}

// MarshalJSON сериализует множество как список индексов
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}

// UnmarshalJSON читает множество из списка индексов
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*s = NewWeekdaySet(days...)
	return nil
}

// WorkingHours современная конфигурация: расписание по дням недели
// Отсутствующий день недели означает "нет записи", а не "закрыто"
type WorkingHours map[time.Weekday]DaySchedule

// Weekdays возвращает дни, для которых есть запись, по возрастанию
func (w WorkingHours) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(w))
	for d := range w {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// LegacySchedule устаревшая конфигурация: одно окно на все дни и список выходных
type LegacySchedule struct {
	StartHour  types.TimeString
	EndHour    types.TimeString
	ClosedDays WeekdaySet
}

// StudioDefaults расписание студии по умолчанию
type StudioDefaults struct {
	Start      types.TimeString
	End        types.TimeString
	ClosedDays WeekdaySet
	UpdatedAt  time.Time
}

// Professional мастер салона вместе с его расписанием
type Professional struct {
	ID           int64
	Name         string
	Active       bool
	WorkingHours WorkingHours    // nil - современная конфигурация отсутствует
	Legacy       *LegacySchedule // nil - устаревшей конфигурации нет
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasWorkingHours возвращает true, если задана хотя бы одна запись по дням недели
func (p *Professional) HasWorkingHours() bool {
	return len(p.WorkingHours) > 0
}

// DefaultStudioDefaults встроенные значения на случай, если в БД нет настроек студии
func DefaultStudioDefaults() StudioDefaults {
	return StudioDefaults{
		Start:      types.MustTimeString(DefaultOpeningTime),
		End:        types.MustTimeString(DefaultClosingTime),
		ClosedDays: NewWeekdaySet(int(time.Sunday)),
	}
}
