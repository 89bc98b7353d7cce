package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	keyPrefix       = "salon:schedule:"
	studioKey       = keyPrefix + "studio"
	professionalKey = keyPrefix + "professional:%d"
	activeListKey   = keyPrefix + "professionals:active"
)

// Cache read-through кэш расписаний поверх репозиториев
// Ошибки Redis не ломают чтение: запрос уходит в БД, ошибка пишется в лог
type Cache struct {
	rdb           RedisClient
	professionals ProfessionalRepository
	studio        StudioRepository
	ttl           time.Duration
	logger        Logger
}

// NewCache создает кэш расписаний
func NewCache(rdb RedisClient, professionals ProfessionalRepository, studio StudioRepository, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		rdb:           rdb,
		professionals: professionals,
		studio:        studio,
		ttl:           ttl,
		logger:        logger,
	}
}

// GetByID получает мастера из кэша или из репозитория
func (c *Cache) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	key := fmt.Sprintf(professionalKey, id)

	var cached domain.Professional
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := c.professionals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, p)
	return p, nil
}

// ListActive получает список активных мастеров из кэша или из репозитория
func (c *Cache) ListActive(ctx context.Context) ([]*domain.Professional, error) {
	var cached []*domain.Professional
	if c.load(ctx, activeListKey, &cached) {
		return cached, nil
	}

	list, err := c.professionals.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, activeListKey, list)
	return list, nil
}

// UpdateWorkingHours обновляет расписание мастера и сбрасывает его кэш
func (c *Cache) UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error {
	if err := c.professionals.UpdateWorkingHours(ctx, id, hours); err != nil {
		return err
	}
	c.invalidate(ctx, fmt.Sprintf(professionalKey, id), activeListKey)
	return nil
}

// GetDefaults получает настройки студии из кэша или из репозитория
func (c *Cache) GetDefaults(ctx context.Context) (domain.StudioDefaults, error) {
	var cached domain.StudioDefaults
	if c.load(ctx, studioKey, &cached) {
		return cached, nil
	}

	d, err := c.studio.GetDefaults(ctx)
	if err != nil {
		return domain.StudioDefaults{}, err
	}

	c.store(ctx, studioKey, d)
	return d, nil
}

// SaveDefaults сохраняет настройки студии и сбрасывает кэш
func (c *Cache) SaveDefaults(ctx context.Context, d domain.StudioDefaults) (domain.StudioDefaults, error) {
	saved, err := c.studio.SaveDefaults(ctx, d)
	if err != nil {
		return domain.StudioDefaults{}, err
	}
	c.invalidate(ctx, studioKey)
	return saved, nil
}

func (c *Cache) load(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("ScheduleCache: get %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("ScheduleCache: decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("ScheduleCache: encode %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("ScheduleCache: set %s: %v", key, err)
	}
}

func (c *Cache) invalidate(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("ScheduleCache: del %v: %v", keys, err)
	}
}
