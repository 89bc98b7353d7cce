// Package schedulejson разбирает расписания из JSONB колонок.
//
// В БД встречаются оба формата: нативный JSON-массив и строка, внутри которой
// лежит JSON. Здесь оба приводятся к типам domain, дальше по коду строки не ходят.
package schedulejson

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DefaultClosedDays выходные, если список не удалось разобрать
func DefaultClosedDays() domain.WeekdaySet {
	return domain.NewWeekdaySet(domain.DefaultClosedWeekday)
}

// DecodeClosedDays разбирает список выходных
// Принимает [0,6], "[0,6]" (строка с JSON) и "0,6". NULL или ошибка разбора - только воскресенье,
// ok=false только при ошибке разбора
func DecodeClosedDays(raw []byte) (domain.WeekdaySet, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return DefaultClosedDays(), true
	}

	if days, ok := decodeIntList(raw); ok {
		return domain.NewWeekdaySet(days...), true
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		// не JSON вообще, пробуем как есть
		encoded = string(raw)
	}
	encoded = strings.TrimSpace(encoded)

	if days, ok := decodeIntList([]byte(encoded)); ok {
		return domain.NewWeekdaySet(days...), true
	}
	if days, ok := decodeCSV(encoded); ok {
		return domain.NewWeekdaySet(days...), true
	}

	return DefaultClosedDays(), false
}

// EncodeClosedDays сериализует выходные как JSON-массив
func EncodeClosedDays(s domain.WeekdaySet) []byte {
	data, _ := json.Marshal(s.Days())
	return data
}

type dayJSON struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Closed bool   `json:"closed"`
}

// DecodeWorkingHours разбирает расписание по дням недели: {"1": {"start": "09:00", "end": "18:00", "closed": false}, ...}
// Возвращает nil, если расписание не задано. Если JSON испорчен, все дни закрыты (ok=false).
// День с неразборчивым временем закрыт
func DecodeWorkingHours(raw []byte) (domain.WorkingHours, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}

	var days map[string]dayJSON
	if err := json.Unmarshal(raw, &days); err != nil {
		var encoded string
		if errStr := json.Unmarshal(raw, &encoded); errStr != nil || json.Unmarshal([]byte(encoded), &days) != nil {
			return allClosed(), false
		}
	}

	if len(days) == 0 {
		return nil, true
	}

	hours := make(domain.WorkingHours, len(days))
	ok := true
	for key, d := range days {
		wd, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || wd < 0 || wd > 6 {
			ok = false
			continue
		}

		start, errStart := types.NewTimeStringFromString(d.Start)
		end, errEnd := types.NewTimeStringFromString(d.End)
		if d.Closed {
			hours[time.Weekday(wd)] = domain.DaySchedule{Start: start, End: end, Closed: true}
			continue
		}
		if errStart != nil || errEnd != nil {
			ok = false
			hours[time.Weekday(wd)] = domain.ClosedDay()
			continue
		}
		hours[time.Weekday(wd)] = domain.DaySchedule{Start: start, End: end}
	}

	if len(hours) == 0 {
		return allClosed(), false
	}
	return hours, ok
}

// EncodeWorkingHours сериализует расписание по дням недели. nil - NULL
func EncodeWorkingHours(hours domain.WorkingHours) ([]byte, error) {
	if len(hours) == 0 {
		return nil, nil
	}
	days := make(map[string]dayJSON, len(hours))
	for wd, d := range hours {
		days[strconv.Itoa(int(wd))] = dayJSON{
			Start:  timeOrEmpty(d.Start),
			End:    timeOrEmpty(d.End),
			Closed: d.Closed,
		}
	}
	return json.Marshal(days)
}

// DecodeTime разбирает "HH:MM" из nullable колонки. NULL и мусор дают пустое время
func DecodeTime(s *string) types.TimeString {
	if s == nil {
		return types.TimeString{}
	}
	t, err := types.NewTimeStringFromString(*s)
	if err != nil {
		return types.TimeString{}
	}
	return t
}

func allClosed() domain.WorkingHours {
	hours := make(domain.WorkingHours, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		hours[wd] = domain.ClosedDay()
	}
	return hours
}

func timeOrEmpty(t types.TimeString) string {
	if t.IsZero() {
		return ""
	}
	return t.String()
}

func decodeIntList(raw []byte) ([]int, bool) {
	var days []int
	if err := json.Unmarshal(raw, &days); err == nil {
		return days, true
	}
	// встречаются строки внутри массива: ["0","6"]
	var strs []string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, false
	}
	return decodeStrings(strs)
}

func decodeCSV(s string) ([]int, bool) {
	s = strings.Trim(s, "{}[] ")
	if s == "" {
		return []int{}, true
	}
	return decodeStrings(strings.Split(s, ","))
}

func decodeStrings(strs []string) ([]int, bool) {
	days := make([]int, 0, len(strs))
	for _, p := range strs {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		days = append(days, d)
	}
	return days, true
}
