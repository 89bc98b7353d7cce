package schedules

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ProfessionalStore источник расписания мастеров (репозиторий или кэш поверх него)
type ProfessionalStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	ListActive(ctx context.Context) ([]*domain.Professional, error)
	UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error
}

// StudioStore источник настроек студии
type StudioStore interface {
	GetDefaults(ctx context.Context) (domain.StudioDefaults, error)
	SaveDefaults(ctx context.Context, d domain.StudioDefaults) (domain.StudioDefaults, error)
}

// StaffDirectory определяет сотрудников студии
type StaffDirectory interface {
	IsStaff(userID int64) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
