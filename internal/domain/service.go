package domain

import "time"

// Service услуга салона
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasValidDuration возвращает true, если длительность услуги положительна
func (s *Service) HasValidDuration() bool {
	return s.DurationMinutes > 0
}
