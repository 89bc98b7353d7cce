package domain

// ReleasedStatuses статусы, при которых запись НЕ занимает время мастера (deny-list)
// Используется при фильтрации в БД и при построении занятых интервалов
var ReleasedStatuses = []AppointmentStatus{
	StatusCancelledByClient,
	StatusCancelledByStudio,
	StatusRejected,
}

// BlockingStatuses статусы, при которых запись занимает время мастера (allow-list)
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// AllStatuses все известные статусы
var AllStatuses = append(append([]AppointmentStatus{}, BlockingStatuses...), ReleasedStatuses...)

// IsReleased возвращает true для статусов из deny-list
func IsReleased(status AppointmentStatus) bool {
	for _, s := range ReleasedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsKnownStatus возвращает true, если статус есть в одном из списков
func IsKnownStatus(status AppointmentStatus) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CountsAsBooked решает, занимает ли запись с таким статусом время
// Неизвестный статус считается занятым
func CountsAsBooked(status AppointmentStatus) bool {
	return !IsReleased(status)
}

// ReleasedStatusStrings возвращает deny-list как строки (для SQL)
func ReleasedStatusStrings() []string {
	out := make([]string, len(ReleasedStatuses))
	for i, s := range ReleasedStatuses {
		out[i] = string(s)
	}
	return out
}

// statusTransitions переходы, которые выполняет студия (отмена идет отдельным путем)
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusCompleted, StatusNoShow},
}

// CanTransition проверяет, можно ли перевести запись из статуса from в статус to
func CanTransition(from, to AppointmentStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
