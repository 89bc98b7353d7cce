package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProfessionalID int64     // ID мастера
	ServiceID      int64     // ID услуги, задает длительность
	Date           time.Time // Дата (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	ProfessionalID  int64
	ServiceID       int64
	DurationMinutes int
	Closed          bool               // мастер не работает в этот день
	Slots           []types.TimeString // по возрастанию
}
