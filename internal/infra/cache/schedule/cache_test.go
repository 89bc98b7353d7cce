package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// fakeRedis хранит значения в памяти
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), f.err)
}

type mockProfessionals struct{ mock.Mock }

func (m *mockProfessionals) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Professional), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfessionals) ListActive(ctx context.Context) ([]*domain.Professional, error) {
	args := m.Called(ctx)
	if list := args.Get(0); list != nil {
		return list.([]*domain.Professional), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfessionals) UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error {
	return m.Called(ctx, id, hours).Error(0)
}

type mockStudio struct{ mock.Mock }

func (m *mockStudio) GetDefaults(ctx context.Context) (domain.StudioDefaults, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StudioDefaults), args.Error(1)
}

func (m *mockStudio) SaveDefaults(ctx context.Context, d domain.StudioDefaults) (domain.StudioDefaults, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.StudioDefaults), args.Error(1)
}

func TestCache_ProfessionalReadThrough(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	profs := &mockProfessionals{}
	studio := &mockStudio{}
	c := NewCache(rdb, profs, studio, time.Minute, logger.NewNop())

	p := &domain.Professional{
		ID:   7,
		Name: "Anna",
		WorkingHours: domain.WorkingHours{
			time.Monday: {Start: types.MustTimeString("09:00"), End: types.MustTimeString("17:00")},
			time.Sunday: domain.ClosedDay(),
		},
		Legacy: &domain.LegacySchedule{
			StartHour:  types.MustTimeString("10:00"),
			EndHour:    types.MustTimeString("19:00"),
			ClosedDays: domain.NewWeekdaySet(0, 1),
		},
	}
	profs.On("GetByID", mock.Anything, int64(7)).Return(p, nil).Once()

	first, err := c.GetByID(ctx, 7)
	require.NoError(t, err)
	second, err := c.GetByID(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, p.WorkingHours, second.WorkingHours)
	assert.Equal(t, p.Legacy, second.Legacy)
	assert.Equal(t, first.Name, second.Name)
	profs.AssertExpectations(t)

	// обновление сбрасывает кэш
	profs.On("UpdateWorkingHours", mock.Anything, int64(7), mock.Anything).Return(nil).Once()
	require.NoError(t, c.UpdateWorkingHours(ctx, 7, nil))
	profs.On("GetByID", mock.Anything, int64(7)).Return(&domain.Professional{ID: 7}, nil).Once()
	third, err := c.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, third.WorkingHours)
	profs.AssertExpectations(t)
}

func TestCache_RedisDownFallsBackToRepository(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	profs := &mockProfessionals{}
	studio := &mockStudio{}
	c := NewCache(rdb, profs, studio, time.Minute, logger.NewNop())

	studio.On("GetDefaults", mock.Anything).Return(domain.DefaultStudioDefaults(), nil).Twice()

	for i := 0; i < 2; i++ {
		d, err := c.GetDefaults(ctx)
		require.NoError(t, err)
		assert.Equal(t, "08:00", d.Start.String())
	}
	studio.AssertExpectations(t)
}

func TestCache_StudioInvalidation(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	profs := &mockProfessionals{}
	studio := &mockStudio{}
	c := NewCache(rdb, profs, studio, time.Minute, logger.NewNop())

	studio.On("GetDefaults", mock.Anything).Return(domain.DefaultStudioDefaults(), nil).Once()
	_, err := c.GetDefaults(ctx)
	require.NoError(t, err)

	updated := domain.StudioDefaults{
		Start:      types.MustTimeString("10:00"),
		End:        types.MustTimeString("16:00"),
		ClosedDays: domain.NewWeekdaySet(1),
	}
	studio.On("SaveDefaults", mock.Anything, updated).Return(updated, nil).Once()
	_, err = c.SaveDefaults(ctx, updated)
	require.NoError(t, err)

	studio.On("GetDefaults", mock.Anything).Return(updated, nil).Once()
	d, err := c.GetDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10:00", d.Start.String())
	assert.Equal(t, []int{1}, d.ClosedDays.Days())
	studio.AssertExpectations(t)
}

func TestCache_RepositoryErrorNotCached(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	profs := &mockProfessionals{}
	c := NewCache(rdb, profs, &mockStudio{}, time.Minute, logger.NewNop())

	notFound := errors.New("not found")
	profs.On("GetByID", mock.Anything, int64(1)).Return(nil, notFound).Once()

	_, err := c.GetByID(ctx, 1)
	assert.ErrorIs(t, err, notFound)
	assert.Empty(t, rdb.data)
}

func TestCache_ActiveListInvalidatedByHoursUpdate(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	profs := &mockProfessionals{}
	c := NewCache(rdb, profs, &mockStudio{}, time.Minute, logger.NewNop())

	list := []*domain.Professional{{ID: 1, Name: "Anna", Active: true}, {ID: 2, Name: "Boris", Active: true}}
	profs.On("ListActive", mock.Anything).Return(list, nil).Once()

	for i := 0; i < 2; i++ {
		got, err := c.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Boris", got[1].Name)
	}
	profs.AssertExpectations(t)

	profs.On("UpdateWorkingHours", mock.Anything, int64(2), mock.Anything).Return(nil).Once()
	require.NoError(t, c.UpdateWorkingHours(ctx, 2, nil))

	profs.On("ListActive", mock.Anything).Return(list[:1], nil).Once()
	got, err := c.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	profs.AssertExpectations(t)
}
