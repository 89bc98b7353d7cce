package schedule

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// RedisClient подмножество *redis.Client, которое нужно кэшу
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ProfessionalRepository источник мастеров
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	ListActive(ctx context.Context) ([]*domain.Professional, error)
	UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error
}

// StudioRepository источник настроек студии
type StudioRepository interface {
	GetDefaults(ctx context.Context) (domain.StudioDefaults, error)
	SaveDefaults(ctx context.Context, d domain.StudioDefaults) (domain.StudioDefaults, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
