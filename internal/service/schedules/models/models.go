package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// DayHours часы работы на один день недели
type DayHours struct {
	Weekday int    `json:"weekday"` // 0=воскресенье..6=суббота
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Closed  bool   `json:"closed"`
}

// UpdateWorkingHoursRequest запрос на замену расписания мастера по дням недели
// Дни, которых нет в запросе, берутся из настроек студии
type UpdateWorkingHoursRequest struct {
	UserID         int64      `json:"userId"`
	ProfessionalID int64      `json:"professionalId"`
	Days           []DayHours `json:"days"`
}

// UpdateStudioHoursRequest запрос на изменение расписания студии
type UpdateStudioHoursRequest struct {
	UserID     int64  `json:"userId"`
	Start      string `json:"start"`
	End        string `json:"end"`
	ClosedDays []int  `json:"closedDays"`
}

// Response модели

// DayScheduleResponse итоговое расписание одного дня недели
type DayScheduleResponse struct {
	Weekday int    `json:"weekday"`
	Name    string `json:"name"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Closed  bool   `json:"closed"`
	Source  string `json:"source"`
}

// ScheduleResponse итоговое недельное расписание мастера
type ScheduleResponse struct {
	ProfessionalID int64                 `json:"professionalId"`
	Name           string                `json:"name"`
	Days           []DayScheduleResponse `json:"days"`
}

// ProfessionalResponse мастер в списке для выбора
type ProfessionalResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	HasOwnSchedule     bool   `json:"hasOwnSchedule"`
	UsesLegacySchedule bool   `json:"usesLegacySchedule"`
}

// ProfessionalListResponse список активных мастеров
type ProfessionalListResponse struct {
	Professionals []ProfessionalResponse `json:"professionals"`
}

// StudioHoursResponse расписание студии по умолчанию
type StudioHoursResponse struct {
	Start      string     `json:"start"`
	End        string     `json:"end"`
	ClosedDays []int      `json:"closedDays"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromSchedule конвертирует итоговое расписание в DTO
func FromSchedule(p *domain.Professional, s availability.Schedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		ProfessionalID: p.ID,
		Name:           p.Name,
		Days:           make([]DayScheduleResponse, 0, 7),
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day := s.Day(wd)
		item := DayScheduleResponse{
			Weekday: int(wd),
			Name:    wd.String(),
			Closed:  !day.IsUsable(),
			Source:  string(s.Source(wd)),
		}
		if !item.Closed {
			item.Start = day.Start.String()
			item.End = day.End.String()
		}
		resp.Days = append(resp.Days, item)
	}

	return resp
}

// FromProfessionalList конвертирует список мастеров в DTO
func FromProfessionalList(list []*domain.Professional) *ProfessionalListResponse {
	resp := &ProfessionalListResponse{Professionals: make([]ProfessionalResponse, 0, len(list))}
	for _, p := range list {
		resp.Professionals = append(resp.Professionals, ProfessionalResponse{
			ID:                 p.ID,
			Name:               p.Name,
			HasOwnSchedule:     p.HasWorkingHours(),
			UsesLegacySchedule: !p.HasWorkingHours() && p.Legacy != nil,
		})
	}
	return resp
}

// FromStudioDefaults конвертирует настройки студии в DTO
func FromStudioDefaults(d domain.StudioDefaults) *StudioHoursResponse {
	resp := &StudioHoursResponse{
		Start:      d.Start.String(),
		End:        d.End.String(),
		ClosedDays: d.ClosedDays.Days(),
	}
	if !d.UpdatedAt.IsZero() {
		updated := d.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
