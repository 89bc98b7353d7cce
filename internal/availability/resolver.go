// Package availability вычисляет, какие дни и слоты мастера доступны для записи.
//
// Пакет чистый: не ходит в БД и не возвращает ошибок. Любая неоднозначность
// в конфигурации разрешается в пользу закрытого дня.
package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Source откуда взято расписание конкретного дня недели
type Source string

const (
	SourceWorkingHours   Source = "working_hours"
	SourceLegacy         Source = "legacy"
	SourceStudioDefaults Source = "studio_defaults"
)

// Schedule итоговое расписание мастера по дням недели
// Строится один раз на мастера, дальше используется без повторного разбора конфигурации
type Schedule struct {
	days    [7]domain.DaySchedule
	sources [7]Source
}

// scheduleConfig один из вариантов конфигурации. ok=false - конфигурация не знает про этот день
type scheduleConfig interface {
	day(weekday time.Weekday) (domain.DaySchedule, bool)
}

type workingHoursConfig struct {
	hours domain.WorkingHours
}

func (c workingHoursConfig) day(weekday time.Weekday) (domain.DaySchedule, bool) {
	d, ok := c.hours[weekday]
	if !ok {
		return domain.DaySchedule{}, false
	}
	return normalizeDay(d), true
}

type fixedHoursConfig struct {
	start, end types.TimeString
	closed     domain.WeekdaySet
}

func (c fixedHoursConfig) day(weekday time.Weekday) (domain.DaySchedule, bool) {
	d := domain.DaySchedule{
		Start:  c.start,
		End:    c.end,
		Closed: c.closed.Has(weekday),
	}
	return normalizeDay(d), true
}

func legacyConfig(l *domain.LegacySchedule) fixedHoursConfig {
	return fixedHoursConfig{start: l.StartHour, end: l.EndHour, closed: l.ClosedDays}
}

func studioConfig(d domain.StudioDefaults) fixedHoursConfig {
	return fixedHoursConfig{start: d.Start, end: d.End, closed: d.ClosedDays}
}

// Resolve строит расписание мастера по дням недели
// Приоритет для каждого дня:
// 1. Запись в WorkingHours для этого дня (как есть, включая флаг closed)
// 2. Устаревшая конфигурация (общее окно + список выходных)
// 3. Настройки студии по умолчанию
func Resolve(p *domain.Professional, defaults domain.StudioDefaults) Schedule {
	type layer struct {
		source Source
		config scheduleConfig
	}

	layers := make([]layer, 0, 3)
	if p != nil && p.HasWorkingHours() {
		layers = append(layers, layer{SourceWorkingHours, workingHoursConfig{hours: p.WorkingHours}})
	}
	if p != nil && p.Legacy != nil {
		layers = append(layers, layer{SourceLegacy, legacyConfig(p.Legacy)})
	}
	layers = append(layers, layer{SourceStudioDefaults, studioConfig(defaults)})

	var s Schedule
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		s.days[wd] = domain.ClosedDay()
		s.sources[wd] = SourceStudioDefaults
		for _, l := range layers {
			if d, ok := l.config.day(wd); ok {
				s.days[wd] = d
				s.sources[wd] = l.source
				break
			}
		}
	}
	return s
}

// ResolveDay расписание мастера на один день недели
func ResolveDay(p *domain.Professional, weekday time.Weekday, defaults domain.StudioDefaults) domain.DaySchedule {
	return Resolve(p, defaults).Day(weekday)
}

// Day возвращает расписание на день недели. Некорректный индекс - закрытый день
func (s Schedule) Day(weekday time.Weekday) domain.DaySchedule {
	if weekday < time.Sunday || weekday > time.Saturday {
		return domain.ClosedDay()
	}
	return s.days[weekday]
}

// ForDate возвращает расписание на календарную дату
func (s Schedule) ForDate(date time.Time) domain.DaySchedule {
	return s.Day(date.Weekday())
}

// Source возвращает, какой уровень конфигурации определил день недели
func (s Schedule) Source(weekday time.Weekday) Source {
	if weekday < time.Sunday || weekday > time.Saturday {
		return SourceStudioDefaults
	}
	return s.sources[weekday]
}

// normalizeDay открытый день без разобранного времени считается закрытым
func normalizeDay(d domain.DaySchedule) domain.DaySchedule {
	if d.Closed {
		return domain.DaySchedule{Start: d.Start, End: d.End, Closed: true}
	}
	if d.Start.IsZero() || d.End.IsZero() {
		return domain.DaySchedule{Closed: true}
	}
	return d
}
